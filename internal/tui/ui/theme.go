package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme holds the colors of the chat client.
type Theme struct {
	BgColor          tcell.Color
	FgColor          tcell.Color
	MutedColor       tcell.Color
	BorderColor      tcell.Color
	BorderFocusColor tcell.Color
	TitleColor       tcell.Color
	SelectedFg       tcell.Color
	SelectedBg       tcell.Color
	ActiveRowBg      tcell.Color
	AvatarColor      tcell.Color
	BadgeFg          tcell.Color
	BadgeBg          tcell.Color
	OwnColor         tcell.Color
	OtherColor       tcell.Color
	SenderColor      tcell.Color
	TypingColor      tcell.Color
	MenuKeyColor     tcell.Color
	StatusBarBg      tcell.Color
	ConnectedColor   tcell.Color
	ConnectingColor  tcell.Color
	OfflineColor     tcell.Color
	FlashInfoColor   tcell.Color
	FlashWarnColor   tcell.Color
	FlashErrColor    tcell.Color
	ToastColor       tcell.Color
}

// DefaultTheme returns the dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorBlack,
		FgColor:          tcell.ColorWhiteSmoke,
		MutedColor:       tcell.ColorGray,
		BorderColor:      tcell.ColorDodgerBlue,
		BorderFocusColor: tcell.ColorLightSkyBlue,
		TitleColor:       tcell.ColorMediumPurple,
		SelectedFg:       tcell.ColorBlack,
		SelectedBg:       tcell.ColorLightSkyBlue,
		ActiveRowBg:      tcell.ColorNavy,
		AvatarColor:      tcell.ColorMediumPurple,
		BadgeFg:          tcell.ColorWhite,
		BadgeBg:          tcell.ColorDodgerBlue,
		OwnColor:         tcell.ColorLightSkyBlue,
		OtherColor:       tcell.ColorWhiteSmoke,
		SenderColor:      tcell.ColorGray,
		TypingColor:      tcell.ColorGray,
		MenuKeyColor:     tcell.ColorDodgerBlue,
		StatusBarBg:      tcell.ColorDarkSlateGray,
		ConnectedColor:   tcell.ColorGreen,
		ConnectingColor:  tcell.ColorYellow,
		OfflineColor:     tcell.ColorOrangeRed,
		FlashInfoColor:   tcell.ColorNavajoWhite,
		FlashWarnColor:   tcell.ColorOrange,
		FlashErrColor:    tcell.ColorOrangeRed,
		ToastColor:       tcell.ColorAqua,
	}
}

// ColorName returns a tview color tag for c.
func ColorName(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
