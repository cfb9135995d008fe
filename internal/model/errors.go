package model

import "errors"

var (
	// ErrDecode входной набор данных не удалось прочитать или разобрать
	ErrDecode = errors.New("decode error")
	// ErrTransport ошибка соединения, записи или неуспешный HTTP ответ
	ErrTransport = errors.New("transport error")
	// ErrConfig отсутствует или некорректна обязательная настройка
	ErrConfig = errors.New("config error")
)
