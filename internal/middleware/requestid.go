package middleware

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"
)

// RequestIDKey is the locals key the request logger reads.
const RequestIDKey = "request_id"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// RequestID tags every request with a ULID, echoed in the X-Request-Id
// response header and attached to request logs.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		entropyMu.Lock()
		id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
		entropyMu.Unlock()

		c.Locals(RequestIDKey, id)
		c.Set("X-Request-Id", id)
		return c.Next()
	}
}
