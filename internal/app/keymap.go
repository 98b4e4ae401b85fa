package app

// Key binding constants used in handleKey.
const (
	KeyQuit        = "q"
	KeyCtrlC       = "ctrl+c"
	KeyEsc         = "esc"
	KeyTab         = "tab"
	KeyShiftTab    = "shift+tab"
	KeyUp          = "up"
	KeyDown        = "down"
	KeyLeft        = "left"
	KeyRight       = "right"
	KeyJ           = "j"
	KeyK           = "k"
	KeyEnter       = "enter"
	KeySpace       = " "
	KeyBackspace   = "backspace"
	KeyDashboard   = "d"
	KeyHistory     = "h"
	KeySettings    = "s"
	KeyTheme       = "t"
	KeyLogout      = "L"
	KeyRefresh     = "r"
	KeyUpload      = "u"
	KeyDelete      = "x"
	KeyDeleteAll   = "X"
	KeyFormat      = "f"
	KeyLanguage    = "l"
	KeyDownload    = "D"
	KeyBack        = "b"
	KeyYes         = "y"
	KeyNo          = "n"
	KeySwitchAuth  = "ctrl+r"
	KeySaveSetting = "ctrl+s"
)
