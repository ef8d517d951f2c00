package user

type UpdatePreferencesDTO struct {
	UserName *string `json:"userName" validate:"omitempty,max=50"`
	Theme    *Theme  `json:"theme" validate:"omitempty,oneof=light dark system"`
}
