package middleware

import "sync"

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex - набор мьютексов по ключу. Запись удаляется, когда ее никто не держит.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

// NewKeyedMutex создает пустой набор
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock захватывает мьютекс ключа и возвращает функцию освобождения
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
