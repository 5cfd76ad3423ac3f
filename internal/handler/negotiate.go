package handler

import (
	"mime"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which branch of FormatData renders a response.
type Kind int

const (
	KindPlain Kind = iota
	KindJSON
	KindHTML
	KindXML
	KindCustom
)

const (
	ContentTypePlain = "text/plain"
	ContentTypeJSON  = "application/json"
	ContentTypeHTML  = "text/html"
	ContentTypeXML   = "application/xml"
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindJSON:
		return "json"
	case KindHTML:
		return "html"
	case KindXML:
		return "xml"
	case KindCustom:
		return "custom"
	}
	return "unknown"
}

type mediaRange struct {
	typ     string
	subtype string
	params  map[string]string
	q       float64
	order   int
}

// parseMediaType splits "type/subtype; k=v" into its parts. A lone "*" is
// read as "*/*".
func parseMediaType(raw string) (mediaRange, bool) {
	mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(raw))
	if err != nil {
		return mediaRange{}, false
	}
	if mediaType == "*" {
		mediaType = "*/*"
	}
	typ, subtype, ok := strings.Cut(mediaType, "/")
	if !ok || typ == "" || subtype == "" {
		return mediaRange{}, false
	}
	return mediaRange{typ: typ, subtype: subtype, params: params, q: 1}, true
}

// parseAccept reads an Accept header. An empty header accepts anything.
func parseAccept(header string) []mediaRange {
	if strings.TrimSpace(header) == "" {
		header = "*/*"
	}

	var ranges []mediaRange
	for i, part := range strings.Split(header, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		mr, ok := parseMediaType(part)
		if !ok {
			continue
		}
		if q, found := mr.params["q"]; found {
			parsed, err := strconv.ParseFloat(q, 64)
			if err != nil {
				continue
			}
			mr.q = parsed
			delete(mr.params, "q")
		}
		mr.order = i
		ranges = append(ranges, mr)
	}
	return ranges
}

// specificity scores how closely an Accept range matches an offer, or -1
// when it does not match at all.
func specificity(accept, offer mediaRange) int {
	s := 0
	switch {
	case accept.typ == offer.typ:
		s |= 4
	case accept.typ != "*":
		return -1
	}
	switch {
	case accept.subtype == offer.subtype:
		s |= 2
	case accept.subtype != "*":
		return -1
	}
	if len(accept.params) > 0 {
		for k, v := range accept.params {
			if !strings.EqualFold(offer.params[k], v) {
				return -1
			}
		}
		s |= 1
	}
	return s
}

type offerPriority struct {
	index int
	q     float64
	s     int
	order int
}

// negotiate picks the offer that best satisfies the Accept header: highest
// quality, then most specific range, then earliest range in the header, then
// earliest offer. Offers matched only with q=0 are never chosen.
func negotiate(acceptHeader string, offers []string) (int, bool) {
	ranges := parseAccept(acceptHeader)

	var candidates []offerPriority
	for i, raw := range offers {
		offer, ok := parseMediaType(raw)
		if !ok {
			continue
		}
		best := offerPriority{index: i, s: -1}
		for _, accept := range ranges {
			s := specificity(accept, offer)
			if s < 0 {
				continue
			}
			if s > best.s || (s == best.s && accept.q > best.q) {
				best.s, best.q, best.order = s, accept.q, accept.order
			}
		}
		if best.s >= 0 && best.q > 0 {
			candidates = append(candidates, best)
		}
	}
	if len(candidates) == 0 {
		return -1, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.q != b.q {
			return a.q > b.q
		}
		if a.s != b.s {
			return a.s > b.s
		}
		if a.order != b.order {
			return a.order < b.order
		}
		return a.index < b.index
	})
	return candidates[0].index, true
}
