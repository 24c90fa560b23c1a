package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/kompox/volsaga/domain/model"
)

const maxBodyBytes = 1 << 20

// OperatorHeader names the acting user recorded in audit columns.
const OperatorHeader = "X-Operator"

func operator(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(OperatorHeader))
}

// pageRequest reads current, size, orderByColumn and isAsc.
func pageRequest(r *http.Request) (model.PageRequest, error) {
	q := r.URL.Query()
	var p model.PageRequest
	var err error
	if s := q.Get("current"); s != "" {
		if p.Current, err = strconv.Atoi(s); err != nil {
			return p, fmt.Errorf("%w: current must be an integer", model.ErrPageRequestInvalid)
		}
	}
	if s := q.Get("size"); s != "" {
		if p.Size, err = strconv.Atoi(s); err != nil {
			return p, fmt.Errorf("%w: size must be an integer", model.ErrPageRequestInvalid)
		}
	}
	if s := q.Get("isAsc"); s != "" {
		switch strings.ToLower(s) {
		case "asc", "ascending":
			p.IsAsc = true
		case "desc", "descending":
			p.IsAsc = false
		default:
			if p.IsAsc, err = strconv.ParseBool(s); err != nil {
				return p, fmt.Errorf("%w: isAsc must be a boolean", model.ErrPageRequestInvalid)
			}
		}
	}
	p.OrderBy = q.Get("orderByColumn")
	return p, nil
}

// decodeBody reads a JSON request body into v. An empty body is accepted
// when optional is set.
func decodeBody(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", model.ErrValidation, err)
	}
	return nil
}
