// Package cart contiene la reconciliación del carrito: cliente remoto con difusión de cambios,
// seguimiento de ediciones optimistas con debounce y los view models de la página y del header.
//
// Todo el estado de los view models vive en un único hilo lógico (Scheduler). Las llamadas de red
// corren fuera de ese hilo con Go y vuelven a él con Post; nada se comparte entre la página y el header
// salvo el canal de eventos.
package cart

import "time"

// Scheduler ejecuta tareas de forma cooperativa en un único hilo lógico.
type Scheduler interface {
	// Post encola task para el siguiente turno del hilo lógico.
	Post(task func())
	// Go ejecuta trabajo bloqueante (I/O) fuera del hilo lógico; work vuelve al hilo con Post.
	Go(work func())
	// AfterFunc encola task cuando vence d. El Timer devuelto solo se manipula desde el hilo lógico.
	AfterFunc(d time.Duration, task func()) Timer
}

// Timer temporizador cancelable. Stop devuelve false si la tarea ya se ejecutó o ya estaba detenida.
type Timer interface {
	Stop() bool
}
