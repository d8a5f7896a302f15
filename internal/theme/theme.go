package theme

import (
	"image/color"
)

// Theme defines the colors of the paint window chrome.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window area around the canvas
	Foreground color.RGBA // Status line text

	// Toolbar
	ToolbarBackground color.RGBA
	ToolbarSeparator  color.RGBA

	// Tool Buttons
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonActive          color.RGBA // Selected tool, width or swatch
	ButtonText            color.RGBA
	ButtonTextActive      color.RGBA
	ButtonBorder          color.RGBA

	// Canvas
	CanvasBorder color.RGBA
	CheckerLight color.RGBA // Shown through transparent pixels of a loaded image
	CheckerDark  color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{200, 200, 200, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		ToolbarSeparator:      color.RGBA{170, 170, 170, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonActive:          color.RGBA{120, 160, 220, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonTextActive:      color.RGBA{255, 255, 255, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		CanvasBorder:          color.RGBA{90, 90, 90, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
	}
}
