package raster

import "image/color"

type Theme struct {
	Background   color.RGBA
	PromptText   color.RGBA
	Screen       color.RGBA
	ScreenText   color.RGBA
	Cursor       color.RGBA
	CursorText   color.RGBA
	Key          color.RGBA
	KeyBorder    color.RGBA
	KeyText      color.RGBA
	KeyDisabled  color.RGBA
	Accept       color.RGBA
	Cancel       color.RGBA
	InsertActive color.RGBA
}

// LightTheme is the grey keyboard with green Ok and red Cancel.
var LightTheme = Theme{
	Background:   color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff},
	PromptText:   color.RGBA{A: 0xff},
	Screen:       color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff},
	ScreenText:   color.RGBA{A: 0xff},
	Cursor:       color.RGBA{A: 0xff},
	CursorText:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	Key:          color.RGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff},
	KeyBorder:    color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff},
	KeyText:      color.RGBA{A: 0xff},
	KeyDisabled:  color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff},
	Accept:       color.RGBA{G: 0x99, A: 0xff},
	Cancel:       color.RGBA{R: 0xff, A: 0xff},
	InsertActive: color.RGBA{R: 0xff, A: 0xff},
}

var DarkTheme = Theme{
	Background:   color.RGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xff},
	PromptText:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	Screen:       color.RGBA{R: 0x28, G: 0x28, B: 0x28, A: 0xff},
	ScreenText:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	Cursor:       color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	CursorText:   color.RGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xff},
	Key:          color.RGBA{R: 0x28, G: 0x28, B: 0x28, A: 0xff},
	KeyBorder:    color.RGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xff},
	KeyText:      color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	KeyDisabled:  color.RGBA{R: 0x6e, G: 0x6e, B: 0x6e, A: 0xff},
	Accept:       color.RGBA{R: 0x3f, G: 0xb9, B: 0x50, A: 0xff},
	Cancel:       color.RGBA{R: 0xf8, G: 0x51, B: 0x49, A: 0xff},
	InsertActive: color.RGBA{R: 0xd2, G: 0x99, B: 0x22, A: 0xff},
}

// ThemeByName returns LightTheme for anything but "dark".
func ThemeByName(name string) Theme {
	if name == "dark" {
		return DarkTheme
	}
	return LightTheme
}
