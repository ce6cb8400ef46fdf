package stitch

import "github.com/mmcdole/stitchsync/internal/domain"

// MapScreens converts API screens to domain screens, preserving order
func MapScreens(screens []Screen) []domain.Screen {
	result := make([]domain.Screen, 0, len(screens))
	for _, s := range screens {
		result = append(result, MapScreen(s))
	}
	return result
}

// MapScreen converts a single API screen to a domain screen
func MapScreen(s Screen) domain.Screen {
	screen := domain.Screen{
		ID:    s.ID,
		Title: s.Title,
	}
	if s.HTMLCode != nil {
		screen.HTMLCode = &domain.DownloadRef{DownloadURL: s.HTMLCode.DownloadURL}
	}
	return screen
}
