package user

type UserContainer struct {
	Handler *Handler
}

func NewUserContainer() *UserContainer {
	return &UserContainer{
		Handler: NewHandler(NewService(NewRepository())),
	}
}
