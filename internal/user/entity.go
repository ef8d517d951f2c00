package user

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

var AllThemes = []Theme{
	ThemeLight,
	ThemeDark,
	ThemeSystem,
}

func (t Theme) IsValid() bool {
	for _, v := range AllThemes {
		if t == v {
			return true
		}
	}
	return false
}

type Preferences struct {
	UserName string `json:"userName"`
	Theme    Theme  `json:"theme"`
}

const (
	UserNameKey = "quizzicalai_userName"
	ThemeKey    = "theme"
)
