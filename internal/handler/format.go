package handler

import (
	"fmt"
	"net/http"
	"sort"
)

// RenderFunc writes a complete response with the given status.
type RenderFunc func(w http.ResponseWriter, status int) error

// FormatData holds the representations a handler can answer with. Plain and
// JSON are always offered; HTML and XML only when set. Custom entries are
// keyed by media type and replace a built-in representation of the same type.
type FormatData struct {
	Plain  string
	JSON   any
	HTML   string
	XML    string
	Custom map[string]RenderFunc
}

type renderer struct {
	kind      Kind
	mediaType string
	render    RenderFunc
}

func (d FormatData) renderers() []renderer {
	out := []renderer{
		{kind: KindPlain, mediaType: ContentTypePlain, render: textRenderer(plainContentType, d.Plain)},
		{kind: KindJSON, mediaType: ContentTypeJSON, render: jsonRenderer(d.JSON)},
	}
	if d.HTML != "" {
		out = append(out, renderer{kind: KindHTML, mediaType: ContentTypeHTML, render: textRenderer(htmlContentType, d.HTML)})
	}
	if d.XML != "" {
		out = append(out, renderer{kind: KindXML, mediaType: ContentTypeXML, render: textRenderer(xmlContentType, d.XML)})
	}

	keys := make([]string, 0, len(d.Custom))
	for k := range d.Custom {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, mediaType := range keys {
		render := d.Custom[mediaType]
		if render == nil {
			continue
		}
		replaced := false
		for i := range out {
			if sameMediaType(out[i].mediaType, mediaType) {
				out[i] = renderer{kind: KindCustom, mediaType: mediaType, render: render}
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, renderer{kind: KindCustom, mediaType: mediaType, render: render})
		}
	}
	return out
}

func sameMediaType(a, b string) bool {
	ma, okA := parseMediaType(a)
	mb, okB := parseMediaType(b)
	return okA && okB && ma.typ == mb.typ && ma.subtype == mb.subtype
}

func textRenderer(contentType, body string) RenderFunc {
	return func(w http.ResponseWriter, status int) error {
		return writeBody(w, status, contentType, []byte(body))
	}
}

func jsonRenderer(payload any) RenderFunc {
	return func(w http.ResponseWriter, status int) error {
		return respondWithJSON(w, status, payload)
	}
}

// Format writes data in the representation the request's Accept header
// prefers. When nothing matches it answers 406 naming the Accept value.
func Format(w http.ResponseWriter, r *http.Request, data FormatData, status int) error {
	return formatWithFallback(w, r, data, status, func(w http.ResponseWriter, _ int) error {
		return unsupportedContentType(w, r)
	})
}

// Negotiate reports which branch of data would answer r, without writing.
func Negotiate(r *http.Request, data FormatData) (Kind, string, bool) {
	renderers := data.renderers()
	idx, ok := negotiate(r.Header.Get("Accept"), mediaTypes(renderers))
	if !ok {
		return 0, "", false
	}
	return renderers[idx].kind, renderers[idx].mediaType, true
}

func formatWithFallback(w http.ResponseWriter, r *http.Request, data FormatData, status int, fallback RenderFunc) error {
	w.Header().Add("Vary", "Accept")

	renderers := data.renderers()
	idx, ok := negotiate(r.Header.Get("Accept"), mediaTypes(renderers))
	if !ok {
		return fallback(w, status)
	}
	return renderers[idx].render(w, status)
}

func mediaTypes(renderers []renderer) []string {
	offers := make([]string, len(renderers))
	for i, rd := range renderers {
		offers[i] = rd.mediaType
	}
	return offers
}

func unsupportedContentType(w http.ResponseWriter, r *http.Request) error {
	return respondWithText(w, http.StatusNotAcceptable, fmt.Sprintf("%s not supported", r.Header.Get("Accept")))
}
