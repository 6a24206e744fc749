// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamcompare/internal/recommend"
	"github.com/tomtom215/streamcompare/internal/validation"
)

// CompareRequest is the body of the recommendation endpoints.
// An empty channel list is valid and yields empty results.
type CompareRequest struct {
	ChannelIDs []int           `json:"channel_ids" validate:"max=500,dive,gt=0"`
	Weights    *WeightsRequest `json:"weights,omitempty"`
}

// WeightsRequest carries the preference sliders. A weight left out of the
// object takes the default of 5; an explicit value must be in [1,10].
type WeightsRequest struct {
	Price    *int `json:"price,omitempty" validate:"omitempty,min=1,max=10"`
	Coverage *int `json:"coverage,omitempty" validate:"omitempty,min=1,max=10"`
	Features *int `json:"features,omitempty" validate:"omitempty,min=1,max=10"`
}

// ToWeights converts the request weights, applying defaults when absent.
func (r *CompareRequest) ToWeights() recommend.Weights {
	w := recommend.DefaultWeights()
	if r.Weights == nil {
		return w
	}
	if r.Weights.Price != nil {
		w.Price = *r.Weights.Price
	}
	if r.Weights.Coverage != nil {
		w.Coverage = *r.Weights.Coverage
	}
	if r.Weights.Features != nil {
		w.Features = *r.Weights.Features
	}
	return w
}

// ChannelListRequest holds the query parameters of GET /channels.
type ChannelListRequest struct {
	Category string `json:"category" validate:"omitempty,max=100"`
}

// errBodyTooLarge reports a request body beyond the configured limit.
var errBodyTooLarge = errors.New("request body too large")

// decodeJSON reads one JSON document from the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return fmt.Errorf("read request body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("request body is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// decodeAndValidate decodes the body and validates it, writing the error
// response itself. It reports whether the handler should continue.
func decodeAndValidate(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := decodeJSON(r, dst); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			rw.Error(http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "Request body too large")
			return false
		}
		rw.BadRequest(err.Error())
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		rw.ValidationError(verr)
		return false
	}
	return true
}

// parseIDParam parses a positive integer path parameter.
func parseIDParam(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
