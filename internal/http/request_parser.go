package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"chitieu/internal/core"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// errBadRequest marks bodies that could not be decoded at all.
var errBadRequest = errors.New("malformed request body")

// parseQuery reads month, year, q and group from the query string. Missing
// month and year default to the current period; malformed values are
// reported rather than replaced.
func parseQuery(values url.Values, now time.Time) (core.Query, error) {
	q := core.Query{
		Month:  int(now.Month()),
		Year:   now.Year(),
		Search: sanitizeInput(values.Get("q")),
	}

	var err error
	if q.Month, err = intParam(values, "month", q.Month); err != nil {
		return core.Query{}, fmt.Errorf("%w: month %q", core.ErrInvalidMonth, values.Get("month"))
	}
	if q.Year, err = intParam(values, "year", q.Year); err != nil {
		return core.Query{}, fmt.Errorf("%w: year %q", core.ErrInvalidYear, values.Get("year"))
	}
	if q.Group, err = core.ParseGroup(values.Get("group")); err != nil {
		return core.Query{}, err
	}
	return q, nil
}

func intParam(values url.Values, key string, fallback int) (int, error) {
	v := strings.TrimSpace(values.Get(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

// amountField accepts a JSON number or a string such as "50.000".
type amountField int64

func (a *amountField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := core.ParseAmount(s)
		if err != nil {
			return err
		}
		*a = amountField(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("%w: amount must be a whole number", core.ErrInvalidInput)
	}
	*a = amountField(v)
	return nil
}

type categoryRequest struct {
	Name           string      `json:"name"`
	Color          string      `json:"color"`
	Group          string      `json:"group"`
	Description    string      `json:"description"`
	BaselineAmount amountField `json:"baseline_amount"`
}

// input converts the request to a CategoryInput. Field validation is left
// to the store so every entry point applies the same rules.
func (c categoryRequest) input() (core.CategoryInput, error) {
	group, err := core.ParseGroup(c.Group)
	if err != nil {
		return core.CategoryInput{}, err
	}
	if group == core.GroupAll {
		return core.CategoryInput{}, fmt.Errorf("%w: a category needs a concrete group", core.ErrInvalidGroup)
	}
	return core.CategoryInput{
		Name:           sanitizeInput(c.Name),
		Color:          sanitizeInput(c.Color),
		Group:          group,
		Description:    sanitizeInput(c.Description),
		BaselineAmount: int64(c.BaselineAmount),
	}, nil
}

type itemRequest struct {
	Title  string      `json:"title"`
	Amount amountField `json:"amount"`
	Date   string      `json:"date"`
}

func (i itemRequest) input() (core.ItemInput, error) {
	date, err := core.ParseDate(i.Date)
	if err != nil {
		return core.ItemInput{}, err
	}
	return core.ItemInput{
		Title:  sanitizeInput(i.Title),
		Amount: int64(i.Amount),
		Date:   date,
	}, nil
}

// decodeJSON reads a single JSON object into dst. Domain errors raised while
// decoding fields (e.g. a negative amount string) are passed through;
// anything else is reported as errBadRequest.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON object", errBadRequest)
	}
	return nil
}
