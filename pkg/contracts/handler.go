package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by the HTTP surfaces (bookings, availability,
// holds, health) so the application can mount each on its router without
// knowing the routes.
type Handler interface {
	RegisterRoutes(*httprouter.Router)
}
