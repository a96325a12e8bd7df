package repository

import "errors"

var (
	ErrNotFound = errors.New("запись не найдена")
	ErrConflict = errors.New("запись с такими данными уже существует")
)
