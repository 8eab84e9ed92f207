package api

import (
	"github.com/Domenick1991/fieldbooking/internal/calendar"
	"github.com/Domenick1991/fieldbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

func requiredDay(c *gin.Context, name string) (calendar.Day, error) {
	raw := c.Query(name)
	if raw == "" {
		return calendar.Day{}, domain.ValidationError{Field: name, Msg: name + " is required"}
	}
	day, err := calendar.ParseDay(raw)
	if err != nil {
		return calendar.Day{}, domain.ValidationError{Field: name, Msg: err.Error(), Err: err}
	}
	return day, nil
}

// optionalDay returns nil when the query parameter is absent.
func optionalDay(c *gin.Context, name string) (*calendar.Day, error) {
	if c.Query(name) == "" {
		return nil, nil
	}
	day, err := requiredDay(c, name)
	if err != nil {
		return nil, err
	}
	return &day, nil
}
