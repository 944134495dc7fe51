package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"givingbank/internal/db"
	"givingbank/internal/drafts"
	"givingbank/internal/forms"
	"givingbank/internal/metrics"
	"givingbank/internal/notify"
	"givingbank/internal/session"
	"givingbank/internal/tiers"
	"givingbank/internal/visitor"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-at-least-32-chars!!"

type client struct {
	t      *testing.T
	app    *fiber.App
	cookie string
	env    *Env
}

func newClient(t *testing.T) *client {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	m := metrics.NewCollector()
	reg := session.NewRegistry(time.Hour,
		session.WithNotifierOptions(notify.WithObserver(m.ObserveNotification)))
	t.Cleanup(reg.Close)

	cfg := forms.DefaultConfig()
	cfg.ResetDelay = time.Minute
	cfg.SearchDelay = time.Minute
	cfg.WelcomeDelay = time.Minute
	cfg.MaxUploadMB = 1

	env := &Env{
		Sessions: reg,
		Forms: forms.NewService(cfg, tiers.Default(), drafts.NewSQLiteStore(database),
			forms.WithClock(func() time.Time { return time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC) }),
			forms.OnReject(m.ObserveRejection)),
		Metrics: m,
		Log:     zap.NewNop(),
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(visitor.Middleware(visitor.Config{Secret: testSecret}))
	app.Get("/healthz", Health(env))
	Register(app, env)

	return &client{t: t, app: app, env: env}
}

func (cl *client) do(req *http.Request) *http.Response {
	cl.t.Helper()
	if cl.cookie != "" {
		req.Header.Set("Cookie", cl.cookie)
	}
	resp, err := cl.app.Test(req)
	require.NoError(cl.t, err)
	for _, c := range resp.Cookies() {
		if c.Name == visitor.CookieName {
			cl.cookie = c.Name + "=" + c.Value
		}
	}
	return resp
}

func (cl *client) postForm(path string, values url.Values, headers ...string) *http.Response {
	cl.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return cl.do(req)
}

func (cl *client) postJSON(path string, values url.Values) resultJSON {
	cl.t.Helper()
	resp := cl.postForm(path, values, "Accept", fiber.MIMEApplicationJSON)
	var out resultJSON
	require.NoError(cl.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func volunteerValues() url.Values {
	return url.Values{
		"fullName":   {"نورة العتيبي"},
		"email":      {"noura@example.sa"},
		"phone":      {"0551234567"},
		"nationalId": {"1098765432"},
		"birthDate":  {"2000-05-01"},
		"city":       {"riyadh"},
		"interests":  {"education", "health"},
	}
}

func TestHome_IssuesVisitorCookie(t *testing.T) {
	cl := newClient(t)
	resp := cl.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, cl.cookie)
	html := body(t, resp)
	assert.Contains(t, html, `id="quickSearchForm"`)
	assert.Contains(t, html, `id="toast"`)
	assert.Equal(t, 1, cl.env.Sessions.Len())
}

func TestShowForm_RendersFields(t *testing.T) {
	cl := newClient(t)
	resp := cl.do(httptest.NewRequest(http.MethodGet, "/volunteer", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html := body(t, resp)
	for _, id := range []string{`id="fullName"`, `id="email"`, `name="interests"`, `type="file"`, `enctype="multipart/form-data"`} {
		assert.Contains(t, html, id)
	}
}

func TestVolunteer_MissingFieldsJSON(t *testing.T) {
	cl := newClient(t)
	resp := cl.postForm("/volunteer", url.Values{"email": {"x@y.z"}}, "Accept", fiber.MIMEApplicationJSON)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var out resultJSON
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.False(t, out.OK)
	require.NotNil(t, out.Notification)
	assert.Equal(t, notify.Error, out.Notification.Severity)
	assert.EqualValues(t, 1, cl.env.Metrics.Rejections(forms.VolunteerForm))
}

func TestVolunteer_SuccessWithInterests(t *testing.T) {
	cl := newClient(t)
	out := cl.postJSON("/volunteer", volunteerValues())
	assert.True(t, out.OK)
	require.NotNil(t, out.Notification)
	assert.Equal(t, notify.Success, out.Notification.Severity)
}

func TestVolunteer_HTMXRendersFormAndToast(t *testing.T) {
	cl := newClient(t)
	v := volunteerValues()
	v.Set("phone", "123")
	resp := cl.postForm("/volunteer", v, "HX-Request", "true")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	html := body(t, resp)
	assert.True(t, strings.HasPrefix(html, `<form id="volunteerForm"`))
	assert.Contains(t, html, `hx-swap-oob="true"`)
	assert.Contains(t, html, "is-invalid")
	assert.Contains(t, html, notify.Error.Color())
}

func TestVolunteer_MultipartAttachmentTooLarge(t *testing.T) {
	cl := newClient(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, vs := range volunteerValues() {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	fw, err := mw.CreateFormFile("attachment", "cv.pdf")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("x"), 1024*1024+1))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/volunteer", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", fiber.MIMEApplicationJSON)
	resp := cl.do(req)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var out resultJSON
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "attachment", out.Field)
}

func TestVolunteerCheck(t *testing.T) {
	cl := newClient(t)
	resp := cl.postForm("/volunteer/check/phone", url.Values{"phone": {"999"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, notify.Warning.Color())
	assert.Contains(t, html, "رقم هاتف غير صحيح")
}

func TestCalculator_Profiles(t *testing.T) {
	cl := newClient(t)

	out := cl.postJSON("/calculator", url.Values{"totalHours": {"120"}})
	require.True(t, out.OK)
	require.NotNil(t, out.Summary)
	assert.Equal(t, tiers.Classic, out.Summary.Profile)
	assert.Equal(t, "متقدم", out.Summary.Level)

	out = cl.postJSON("/calculator/level", url.Values{"totalHours": {"120"}})
	require.True(t, out.OK)
	assert.Equal(t, tiers.Stars, out.Summary.Profile)
	assert.Equal(t, "متوسط ⭐⭐", out.Summary.Level)

	out = cl.postJSON("/calculator/results", url.Values{"totalHours": {""}})
	assert.False(t, out.OK)
}

func TestHoursDraft(t *testing.T) {
	cl := newClient(t)

	resp := cl.do(httptest.NewRequest(http.MethodGet, "/hours/draft", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	values := url.Values{
		"volunteerSelect":   {"نورة"},
		"opportunitySelect": {"حملة تشجير"},
		"workDate":          {"2026-10-10"},
		"totalHours":        {"7"},
		"workDescription":   {"زراعة"},
	}
	out := cl.postJSON("/hours/save", values)
	require.True(t, out.OK)
	assert.EqualValues(t, 1, cl.env.Metrics.DraftSaves.Load())

	values.Set("totalHours", "12")
	require.True(t, cl.postJSON("/hours/save", values).OK)

	resp = cl.do(httptest.NewRequest(http.MethodGet, "/hours/draft", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Values map[string]string `json:"values"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "12", got.Values["totalHours"])
}

func TestPublishOpportunity_EndBeforeStart(t *testing.T) {
	cl := newClient(t)
	out := cl.postJSON("/opportunities/publish", url.Values{
		"title":        {"تنظيف الشاطئ"},
		"organization": {"جمعية البيئة"},
		"category":     {"environment"},
		"city":         {"jeddah"},
		"startDate":    {"2026-11-10"},
		"endDate":      {"2026-11-01"},
		"description":  {"حملة"},
	})
	assert.False(t, out.OK)
	assert.Equal(t, "endDate", out.Field)

	out = cl.postJSON("/opportunities/draft", url.Values{})
	assert.True(t, out.OK)
	assert.Equal(t, notify.Info, out.Notification.Severity)
}

func TestGenericSubmit(t *testing.T) {
	cl := newClient(t)
	resp := cl.postForm("/forms/nope", url.Values{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	out := cl.postJSON("/forms/"+forms.CalculatorForm, url.Values{})
	assert.False(t, out.OK)
}

func TestNotifications(t *testing.T) {
	cl := newClient(t)
	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req.Header.Set("Accept", fiber.MIMEApplicationJSON)
	assert.Equal(t, http.StatusNoContent, cl.do(req).StatusCode)

	cl.postJSON("/search", url.Values{})

	req = httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req.Header.Set("Accept", fiber.MIMEApplicationJSON)
	resp := cl.do(req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var n notify.Notification
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&n))
	assert.Equal(t, notify.Warning, n.Severity)
	assert.EqualValues(t, 1, cl.env.Metrics.Notifications(notify.Warning))

	del := httptest.NewRequest(http.MethodDelete, "/notifications", nil)
	del.Header.Set("Accept", fiber.MIMEApplicationJSON)
	assert.Equal(t, http.StatusNoContent, cl.do(del).StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req.Header.Set("Accept", fiber.MIMEApplicationJSON)
	assert.Equal(t, http.StatusNoContent, cl.do(req).StatusCode)
}

func TestHealth(t *testing.T) {
	cl := newClient(t)
	resp := cl.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `"status":"ok"`)
}

// Values kept on the page must survive later requests reusing the server's
// request buffers. app.Test allocates fresh buffers, so this runs on a socket.
func TestSubmittedValuesOutliveRequest(t *testing.T) {
	cl := newClient(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = cl.app.Listener(ln) }()
	t.Cleanup(func() { _ = cl.app.Shutdown() })

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	httpc := &http.Client{Jar: jar, Timeout: 5 * time.Second}
	t.Cleanup(httpc.CloseIdleConnections)
	base := "http://" + ln.Addr().String()

	post := func(path string, values url.Values) {
		t.Helper()
		resp, err := httpc.PostForm(base+path, values)
		require.NoError(t, err)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	post("/volunteer", url.Values{"fullName": {"ZZZZZZZZZZZZZZZZZZZZ"}, "email": {"bad-email"}})
	post("/volunteer/check/email", url.Values{"email": {"still-bad"}})
	post("/forms/hoursForm", url.Values{"volunteerSelect": {"YYYYYYYYYYYYYYYY"}})
	for i := 0; i < 20; i++ {
		filler := url.Values{}
		for j := 0; j < 8; j++ {
			filler.Set(fmt.Sprintf("a%d", j), "QQQQQQQQQQQQQ")
		}
		post("/search", filler)
	}

	u, err := url.Parse(base)
	require.NoError(t, err)
	var token string
	for _, c := range jar.Cookies(u) {
		if c.Name == visitor.CookieName {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)
	claims, err := visitor.ParseToken(token, testSecret)
	require.NoError(t, err)
	p, ok := cl.env.Sessions.Lookup(claims.VisitorID())
	require.True(t, ok)

	view, ok := forms.View(p, forms.VolunteerForm)
	require.True(t, ok)
	got := map[string]string{}
	for _, f := range view.Fields {
		got[f.Spec.ID] = f.Value
	}
	assert.Equal(t, "ZZZZZZZZZZZZZZZZZZZZ", got["fullName"])
	assert.Equal(t, "still-bad", got["email"])

	hours, ok := forms.View(p, forms.HoursForm)
	require.True(t, ok)
	for _, f := range hours.Fields {
		if f.Spec.ID == "volunteerSelect" {
			assert.Equal(t, "YYYYYYYYYYYYYYYY", f.Value)
		}
	}
}
