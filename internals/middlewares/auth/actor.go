// file: internals/middlewares/auth/actor.go
package auth

import (
	"github.com/gofiber/fiber/v2"

	activity "iplku_backend/internals/features/activitylogs/service"
)

// ActorFrom membangun identitas pelaku untuk audit dari token + request.
// Dipakai semua controller mutasi; melengkapi GetUserUUID di bawah middleware ini.
func ActorFrom(c *fiber.Ctx) (activity.Actor, error) {
	userID, err := GetUserUUID(c)
	if err != nil {
		return activity.Actor{}, err
	}
	return activity.Actor{
		UserID:    userID,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	}, nil
}
