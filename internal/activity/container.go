package activity

type ActivityContainer struct {
	Service Service
	Handler *Handler
}

func NewActivityContainer() *ActivityContainer {
	service := NewService(NewRepository())
	return &ActivityContainer{
		Service: service,
		Handler: NewHandler(service),
	}
}
