package ui

// The Color* functions return the escape code of the active theme for a
// semantic role. They return "" when colors are disabled.

func ColorRed() string       { return CurrentTheme().Error }
func ColorGreen() string     { return CurrentTheme().Success }
func ColorYellow() string    { return CurrentTheme().Warning }
func ColorBlue() string      { return CurrentTheme().Primary }
func ColorCyan() string      { return CurrentTheme().Info }
func ColorGray() string      { return CurrentTheme().Secondary }
func ColorBold() string      { return CurrentTheme().Bold }
func ColorUnderline() string { return CurrentTheme().Underline }
func ColorReset() string     { return CurrentTheme().Reset }
