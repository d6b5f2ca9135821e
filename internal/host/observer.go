package host

// Наблюдательские способности (необязательный слой перехвата).
//
// Хост, который умеет сообщать о своих мутациях НАПРЯМУЮ, реализует
// эти интерфейсы. Контракт для хоста: обработчик вызывается ПОСЛЕ
// успешного завершения оригинальной операции, исходное поведение
// (возвращаемое значение, ошибки) не меняется.
//
// Если способностей нет - polling-детектор остается полным
// источником тех же событий, просто с задержкой до следующего цикла.

// CreatureObserver сообщает о добавлении существа в команду.
type CreatureObserver interface {
	OnCreatureStored(fn func(Creature))
}

// BadgeObserver сообщает о выдаче значка.
// count - новое общее количество значков.
type BadgeObserver interface {
	OnBadgeGranted(fn func(count int))
}
