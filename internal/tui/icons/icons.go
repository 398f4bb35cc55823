// ABOUTME: Icon set with Nerd Font detection and Unicode fallback
// ABOUTME: Screens call Icon.String and get whichever glyph the terminal can draw

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// terminals that usually ship with a patched font
var nerdFontTerminals = []string{"iTerm.app", "alacritty", "WezTerm", "kitty", "ghostty"}

func detectNerdFonts(getenv func(string) string) bool {
	if env := getenv("EMS_NERD_FONTS"); env != "" {
		return env == "1" || strings.EqualFold(env, "true")
	}

	term := getenv("TERM")
	termProgram := getenv("TERM_PROGRAM")
	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}
	return getenv("NERD_FONTS") == "1"
}

// HasNerdFonts reports whether Nerd Font glyphs should be used
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts(os.Getenv)
	})
	return useNerdFonts
}

// Icon is a glyph with a plain Unicode fallback
type Icon struct {
	NerdFont string
	Fallback string
}

func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// People and records
	User       = Icon{"\U000F0004", "☺"} // nf-md-account
	Users      = Icon{"\U000F0849", "☷"} // nf-md-account_group
	Mail       = Icon{"\U000F01EE", "✉"} // nf-md-email
	Phone      = Icon{"\U000F03F2", "☎"} // nf-md-phone
	Briefcase  = Icon{"\U000F00D6", "▤"} // nf-md-briefcase
	Department = Icon{"\U000F01D7", "▦"} // nf-md-domain
	Calendar   = Icon{"\U000F00ED", "▣"} // nf-md-calendar

	// Status
	CheckOK  = Icon{"\uF49E", "✓"} // nf-oct-check_circle
	Warning  = Icon{"\uF421", "⚠"} // nf-oct-alert
	Critical = Icon{"\uF52F", "✗"} // nf-oct-x_circle
	Info     = Icon{"\uF449", "ℹ"} // nf-oct-info

	// Actions
	Search  = Icon{"\U000F0349", "⌕"} // nf-md-magnify
	Add     = Icon{"\U000F0415", "+"} // nf-md-plus
	Edit    = Icon{"\U000F03EB", "✎"} // nf-md-pencil
	Trash   = Icon{"\U000F01B4", "✗"} // nf-md-delete
	Archive = Icon{"\U000F003C", "▭"} // nf-md-archive
	Copy    = Icon{"\U000F018F", "⧉"} // nf-md-content_copy
	Refresh = Icon{"\U000F0450", "↻"} // nf-md-refresh
	Back    = Icon{"\U000F004D", "←"} // nf-md-arrow_left
	Quit    = Icon{"\U000F0206", "×"} // nf-md-exit_to_app

	// Sign-in
	Lock   = Icon{"\U000F033E", "⚿"} // nf-md-lock
	Google = Icon{"\U000F02AD", "G"} // nf-md-google

	// Application
	App     = Icon{"\U000F0849", "◈"} // nf-md-account_group
	History = Icon{"\U000F02DA", "≡"} // nf-md-history
)
