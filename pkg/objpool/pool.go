// Package objpool типизированная обёртка над sync.Pool
package objpool

import "sync"

// Resettable объект, который можно вернуть в исходное состояние перед повторным использованием
type Resettable interface {
	Reset()
}

// Pool пул объектов одного типа. Перед возвратом в пул объект сбрасывается.
type Pool[T Resettable] struct {
	internal sync.Pool
	keep     func(T) bool
}

// New создает пул. keep может быть nil; если задан, объекты, для которых он
// вернул false, в пул не возвращаются (например, слишком разросшиеся буферы).
func New[T Resettable](newFunc func() T, keep func(T) bool) *Pool[T] {
	return &Pool[T]{
		internal: sync.Pool{
			New: func() any { return newFunc() },
		},
		keep: keep,
	}
}

// Get берёт объект из пула или создаёт новый
func (p *Pool[T]) Get() T {
	return p.internal.Get().(T)
}

// Put сбрасывает объект и возвращает его в пул
func (p *Pool[T]) Put(obj T) {
	if p.keep != nil && !p.keep(obj) {
		return
	}
	obj.Reset()
	p.internal.Put(obj)
}
