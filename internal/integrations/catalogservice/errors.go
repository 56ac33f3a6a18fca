package catalogservice

import "errors"

var (
	// ErrMasterNotFound возвращается, когда мастер не найден в каталоге
	ErrMasterNotFound = errors.New("master not found in catalog")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found in catalog")

	// ErrServiceNotProvided возвращается, когда мастер не оказывает услугу
	ErrServiceNotProvided = errors.New("master does not provide this service")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)
