// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях банка.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки переводов (абаюнды)
var (
	// ErrSelfTransfer — попытка перевести абаюнды самому себе
	ErrSelfTransfer = errors.New("нельзя переводить абаюнды самому себе")
	// ErrAmountTooLow — сумма меньше минимальной или не положительная
	ErrAmountTooLow = errors.New("сумма перевода слишком мала")
	// ErrRecipientNotFound — получатель не найден в базе
	ErrRecipientNotFound = errors.New("получатель не найден")
	// ErrInsufficientFunds — недостаточно абаюнд на счёте
	ErrInsufficientFunds = errors.New("недостаточно абаюнд на счёте")
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
)

// Ошибки магазина призов
var (
	// ErrPrizeNotFound — приз не найден в каталоге
	ErrPrizeNotFound = errors.New("приз не найден")
	// ErrAlreadyOwned — пользователь уже купил этот приз
	ErrAlreadyOwned = errors.New("этот приз уже куплен")
	// ErrOutOfStock — приз закончился (stock = 0)
	ErrOutOfStock = errors.New("приз закончился")
	// ErrDuplicatePrizeName — приз с таким названием уже существует
	ErrDuplicatePrizeName = errors.New("приз с таким названием уже существует")
	// ErrInvalidPrize — некорректные параметры приза (пустое имя, цена <= 0, остаток < -1)
	ErrInvalidPrize = errors.New("некорректные параметры приза")
)

// Ошибки доступа
var (
	// ErrNotAdmin — пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
)
