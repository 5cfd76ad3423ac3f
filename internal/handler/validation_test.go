package handler

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suar-net/starter-be/internal/model"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestValidate_ReportsEveryFailureInOrder(t *testing.T) {
	h := Validate(
		Query("a").Tags("required"),
		Query("b").Tags("required"),
		Query("c").Tags("required"),
	)(okHandler)

	rec := serve(h, newRequest(http.MethodGet, "/?b=x", "application/json", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeJSON(t, rec)
	errs := body["errors"].([]any)
	require.Len(t, errs, 2)
	assert.Equal(t, "a", errs[0].(map[string]any)["param"])
	assert.Equal(t, "c", errs[1].(map[string]any)["param"])
	assert.Equal(t, "query", errs[0].(map[string]any)["location"])
	assert.Equal(t, "Field 'a' is required", errs[0].(map[string]any)["msg"])

	rec = serve(h, newRequest(http.MethodGet, "/?b=x", "text/plain", nil))
	assert.Equal(t, "query[a]: Field 'a' is required\nquery[c]: Field 'c' is required", rec.Body.String())
}

func TestValidate_PassesWhenAllRulesHold(t *testing.T) {
	h := Validate(Query("a").Tags("required"), Header("X-Token").Trim().Tags("required,min=3"))(okHandler)

	r := newRequest(http.MethodGet, "/?a=1", "", nil)
	r.Header.Set("X-Token", " abc ")
	assert.Equal(t, http.StatusNoContent, serve(h, r).Code)
}

func TestValidate_NoRulesIsPassThrough(t *testing.T) {
	assert.Equal(t, http.StatusNoContent, serve(Validate()(okHandler), newRequest(http.MethodGet, "/", "", nil)).Code)
}

func TestValidate_RulesRunConcurrently(t *testing.T) {
	const n = 3
	var started sync.WaitGroup
	started.Add(n)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	rules := make([]Rule, n)
	for i := range rules {
		rules[i] = RuleFunc(func(r *http.Request) *model.ValidationFailure {
			started.Done()
			select {
			case <-allStarted:
				return nil
			case <-time.After(2 * time.Second):
				return &model.ValidationFailure{Location: LocationQuery, Param: "barrier", Msg: "rules ran one at a time"}
			}
		})
	}

	rec := serve(Validate(rules...)(okHandler), newRequest(http.MethodGet, "/", "", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
}

func TestValidate_PanicSurfacesInRequestGoroutine(t *testing.T) {
	h := Validate(
		Query("a").Tags("required"),
		RuleFunc(func(r *http.Request) *model.ValidationFailure { panic("boom") }),
	)(okHandler)

	assert.PanicsWithValue(t, "boom", func() {
		serve(h, newRequest(http.MethodGet, "/", "", nil))
	})
}

func TestFieldRule_TrimAndMessage(t *testing.T) {
	r := newRequest(http.MethodGet, "/", "", nil)
	r.Header.Set("X-Token", "   ")

	failure := Header("X-Token").Trim().Tags("required").WithMessage("token missing").Check(r)
	require.NotNil(t, failure)
	assert.Equal(t, model.ValidationFailure{Location: LocationHeaders, Param: "X-Token", Msg: "token missing"}, *failure)

	assert.Nil(t, Header("X-Token").Tags("required").Check(r), "untrimmed whitespace counts as present")
	assert.Nil(t, Header("X-Token").Check(r), "a rule without tags always holds")
}

func TestFieldRule_BodyValues(t *testing.T) {
	var failures []model.ValidationFailure
	h := ParseBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, rule := range []Rule{
			Body("count").Tags("gte=1"),
			Body("name").Tags("required,max=3"),
			Body("missing").Tags("required"),
		} {
			if f := rule.Check(r); f != nil {
				failures = append(failures, *f)
			}
		}
	}))

	serve(h, newJSONRequest(http.MethodPost, "/", `{"count":0,"name":"toolong"}`))
	require.Len(t, failures, 3)
	assert.Equal(t, "Field 'count' must be greater than or equal to 1", failures[0].Msg)
	assert.Equal(t, float64(0), failures[0].Value)
	assert.Equal(t, "Field 'name' must be at most 3", failures[1].Msg)
	assert.Equal(t, "toolong", failures[1].Value)
	assert.Equal(t, "Field 'missing' is required", failures[2].Msg)
	assert.Nil(t, failures[2].Value)
}

func TestFieldRule_NonStringBodyValues(t *testing.T) {
	var failures []model.ValidationFailure
	h := ParseBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, rule := range []Rule{
			Body("flag").Tags("required"),
			Body("on").Tags("required,max=3"),
			Body("tags").Tags("required,max=2"),
			Body("meta").Tags("max=1"),
			Body("empty").Tags("required"),
		} {
			if f := rule.Check(r); f != nil {
				failures = append(failures, *f)
			}
		}
	}))

	serve(h, newJSONRequest(http.MethodPost, "/",
		`{"flag":false,"on":true,"tags":["a","b","c"],"meta":{"a":1,"b":2},"empty":{}}`))
	require.Len(t, failures, 4)
	assert.Equal(t, "Field 'flag' is required", failures[0].Msg)
	assert.Equal(t, false, failures[0].Value)
	assert.Equal(t, "Field 'on' has an invalid type", failures[1].Msg)
	assert.Equal(t, true, failures[1].Value)
	assert.Equal(t, "Field 'tags' must be at most 2", failures[2].Msg)
	assert.Equal(t, "Field 'meta' must be at most 1", failures[3].Msg)
}

func TestFieldRule_UnknownTagStillPanics(t *testing.T) {
	assert.Panics(t, func() {
		Query("q").Tags("nosuchtag").Check(newRequest(http.MethodGet, "/?q=x", "", nil))
	})
}

func TestValidate_WrongBodyTypesOnItemsAre400(t *testing.T) {
	r := newTestRouter(t, testConfig(t), false)

	tests := []struct {
		body  string
		param string
	}{
		{`{"name":true}`, "name"},
		{`{"name":"ok","description":false}`, "description"},
	}
	for _, tc := range tests {
		t.Run(tc.body, func(t *testing.T) {
			rec := serve(r, newJSONRequest(http.MethodPost, "/v1/items", tc.body))
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			first := firstError(t, decodeJSON(t, rec))
			assert.Equal(t, LocationBody, first["location"])
			assert.Equal(t, tc.param, first["param"])
			assert.Equal(t, "Field '"+tc.param+"' has an invalid type", first["msg"])

			req := newJSONRequest(http.MethodPost, "/v1/items", tc.body)
			req.Header.Set("Accept", "text/plain")
			rec = serve(r, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "body["+tc.param+"]: Field '"+tc.param+"' has an invalid type")
		})
	}
}

func TestKeyExists(t *testing.T) {
	r := chi.NewRouter()
	r.With(Validate(KeyExists())).Delete("/{key}", okHandler)
	r.With(Validate(KeyExists())).Delete("/", okHandler)

	assert.Equal(t, http.StatusNoContent, serve(r, newRequest(http.MethodDelete, "/abc", "", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, newRequest(http.MethodDelete, "/", "", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, newRequest(http.MethodDelete, "/%20%20", "", nil)).Code)
}

func TestValidators_Defaults(t *testing.T) {
	v := Validators{}.withDefaults()
	assert.Nil(t, v.Get)
	assert.Nil(t, v.Post)
	assert.Len(t, v.Put, 1)
	assert.Len(t, v.Delete, 1)

	v = Validators{Put: []Rule{}, Delete: []Rule{}}.withDefaults()
	assert.Empty(t, v.Put)
	assert.Empty(t, v.Delete)
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	failures := ValidateStruct(&model.DTOItemRequest{})
	require.Len(t, failures, 1)
	assert.Equal(t, LocationBody, failures[0].Location)
	assert.Equal(t, "name", failures[0].Param)
	assert.Equal(t, "Field 'name' is required", failures[0].Msg)

	assert.Empty(t, ValidateStruct(&model.DTOItemRequest{Name: "widget"}))
}
