// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях EcoTrack.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки аккаунтов
var (
	// ErrUserExists — аккаунт с таким email уже зарегистрирован
	ErrUserExists = errors.New("пользователь уже существует")
	// ErrUserNotFound — аккаунт с таким email не найден
	ErrUserNotFound = errors.New("пользователь не найден, сначала зарегистрируйтесь")
	// ErrInvalidEmail — пустой или явно некорректный email
	ErrInvalidEmail = errors.New("некорректный email")
	// ErrNotSignedIn — операция доступна только после входа
	ErrNotSignedIn = errors.New("нужно войти в аккаунт")
)

// Ошибки учёта воды и углерода
var (
	// ErrInvalidAmount — отрицательное или нечисловое значение
	ErrInvalidAmount = errors.New("значение должно быть неотрицательным числом")
	// ErrUnknownActivity — неизвестный вид расхода воды
	ErrUnknownActivity = errors.New("неизвестная активность")
	// ErrUnknownTransportMode — неизвестный вид транспорта
	ErrUnknownTransportMode = errors.New("неизвестный вид транспорта")
	// ErrUnknownFoodType — неизвестный тип питания
	ErrUnknownFoodType = errors.New("неизвестный тип питания")
	// ErrLogNotFound — запись журнала не найдена
	ErrLogNotFound = errors.New("запись не найдена")
)

// Ошибки сообщений о проблемах
var (
	// ErrReportNotFound — сообщение о проблеме не найдено
	ErrReportNotFound = errors.New("сообщение о проблеме не найдено")
	// ErrInvalidStatus — недопустимый статус или переход
	ErrInvalidStatus = errors.New("недопустимый статус")
	// ErrEmptyReport — не указано место или описание
	ErrEmptyReport = errors.New("укажите место и описание проблемы")
)

// Ошибки сообщества
var (
	// ErrPostNotFound — пост не найден
	ErrPostNotFound = errors.New("пост не найден")
	// ErrEmptyPost — пустой текст поста или комментария
	ErrEmptyPost = errors.New("текст не может быть пустым")
	// ErrPostTooLong — слишком длинный текст
	ErrPostTooLong = errors.New("текст слишком длинный (максимум 500 символов)")
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
)

// Ошибки коуча
var (
	// ErrCoachDisabled — генерация советов отключена в настройках
	ErrCoachDisabled = errors.New("AI-коуч отключён")
	// ErrEmptyCompletion — модель вернула пустой ответ
	ErrEmptyCompletion = errors.New("пустой ответ модели")
)
