package shared

import (
	"encoding/json"
	"net/http"
)

// maxRequestBody caps request payloads. No legitimate payload in this API
// comes close to a megabyte.
const maxRequestBody = 1 << 20

// DecodeJSON decodes the request body into v, rejecting oversized bodies.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBody)).Decode(v)
}
