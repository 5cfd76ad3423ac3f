package handler

import (
	"net/http"

	"github.com/suar-net/starter-be/internal/jsonutil"
)

const (
	plainContentType = ContentTypePlain + "; charset=utf-8"
	jsonContentType  = ContentTypeJSON + "; charset=utf-8"
	htmlContentType  = ContentTypeHTML + "; charset=utf-8"
	xmlContentType   = ContentTypeXML + "; charset=utf-8"
)

// writeBody sets the content type, writes the status and then the body.
func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

func respondWithText(w http.ResponseWriter, status int, text string) error {
	return writeBody(w, status, plainContentType, []byte(text))
}

// respondWithJSON marshals payload and writes it. A payload that cannot be
// encoded turns into a bare 500.
func respondWithJSON(w http.ResponseWriter, status int, payload any) error {
	dat, err := jsonutil.Marshal(payload)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return err
	}
	return writeBody(w, status, jsonContentType, dat)
}
