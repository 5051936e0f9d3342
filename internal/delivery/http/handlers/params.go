package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aliskhannn/revision-tracker-bot/internal/domain/entities"
)

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", entities.ErrInvalidArgument, name)
	}
	return id, nil
}

func pathInt(c *gin.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", entities.ErrInvalidArgument, name)
	}
	return n, nil
}

// queryTime reads a nanosecond timestamp, falling back to def when the parameter is absent.
func queryTime(c *gin.Context, name string, def time.Time) (time.Time, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	ns, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be nanoseconds since epoch", entities.ErrInvalidArgument, name)
	}
	return time.Unix(0, ns).UTC(), nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", entities.ErrInvalidArgument, name)
	}
	return n, nil
}

func bindError(err error) error {
	return fmt.Errorf("%w: invalid request body: %v", entities.ErrInvalidArgument, err)
}
