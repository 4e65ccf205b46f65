// client.go holds the logged in portal session, every section scraper
// talks to the portal through it.

package ums

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"
	"umsassist-backend/internal/components/assert"
	"umsassist-backend/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_login     = "client.login"
	report_client_dashboard = "client.dashboard-call"
)

const DefaultBaseUrl = "https://ums.lpu.in/lpuums"

const (
	loginUserField     = "txtU"
	loginPasswordField = "TxtpwdAutoId_8767"
	loginSubmitField   = "iBtnLogins150203125"
)

// ErrLoginFailed is returned when the portal rejects the credentials.
var ErrLoginFailed = errors.New("login failed: check credentials")

// Options configures how the portal is reached.
type Options struct {
	BaseUrl           string
	Timeout           time.Duration
	RequestsPerSecond float64
	// InsecureSkipVerify disables certificate verification, the portal's
	// chain is not always complete.
	InsecureSkipVerify bool
	BypassCloudflare   bool
}

// DefaultOptions returns the settings used against the real portal.
func DefaultOptions() Options {
	return Options{
		BaseUrl:            DefaultBaseUrl,
		Timeout:            time.Second * 30,
		RequestsPerSecond:  2,
		InsecureSkipVerify: true,
		BypassCloudflare:   true,
	}
}

type client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	tel telemetry.API
}

func newClient(opts Options, tel telemetry.API) (*client, error) {
	assert.NotNil(tel)

	parsedBaseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if opts.InsecureSkipVerify {
		httpClient.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	if opts.BypassCloudflare {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsedBaseUrl.Hostname()))
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Second * 30
	}
	httpClient.SetTimeout(timeout)

	if opts.RequestsPerSecond > 0 {
		// max burst >= 2 just means that no requests will be dropped
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 2)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)

	return &client{
		BaseUrl: parsedBaseUrl,
		Http:    httpClient,
		tel:     tel,
	}, nil
}

func (c *client) origin() string {
	return fmt.Sprintf("%s://%s", c.BaseUrl.Scheme, c.BaseUrl.Host)
}

func (c *client) pageUrl(page string) string {
	return c.BaseUrl.JoinPath(page).String()
}

func hiddenValue(doc *goquery.Document, name string) string {
	return doc.Find(fmt.Sprintf(`input[name="%s"]`, name)).AttrOr("value", "")
}

func (c *client) getDocument(ctx context.Context, page string, headers map[string]string) (*goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get("/" + page)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("get %s: unexpected status %s", page, res.Status())
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

func (c *client) postForm(ctx context.Context, page string, form map[string]string) (*goquery.Document, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(form).
		Post("/" + page)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("post %s: unexpected status %s", page, res.Status())
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

// Login performs the webforms login postback. ErrLoginFailed is returned
// when the portal answers with the login form again.
func (c *client) Login(ctx context.Context, regNo, password string) error {
	loginError := func(err error) error {
		return fmt.Errorf("ums scraper: login failed: %w", err)
	}

	loginPage, err := c.getDocument(ctx, "", nil)
	if err != nil {
		c.tel.ReportBroken(report_client_login, fmt.Errorf("get login page: %w", err))
		return loginError(err)
	}

	form := map[string]string{
		"__EVENTTARGET":    "",
		"__EVENTARGUMENT":  "",
		"__LASTFOCUS":      "",
		loginUserField:     regNo,
		loginPasswordField: password,
		loginSubmitField:   "Login",
	}
	for _, field := range []string{"__VIEWSTATE", "__VIEWSTATEGENERATOR", "__EVENTVALIDATION"} {
		form[field] = hiddenValue(loginPage, field)
	}

	res, err := c.postForm(ctx, "", form)
	if err != nil {
		c.tel.ReportBroken(report_client_login, fmt.Errorf("post login form: %w", err))
		return loginError(err)
	}
	if res.Find("input#"+loginPasswordField).Length() > 0 {
		return ErrLoginFailed
	}
	return nil
}

// dashboardCall posts body as json to one of the dashboard page methods and
// decodes the "d" field of the response envelope into out.
func (c *client) dashboardCall(ctx context.Context, method string, body any, out any) error {
	if body == nil {
		body = struct{}{}
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json; charset=UTF-8").
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetHeader("Referer", c.pageUrl("StudentDashboard.aspx")).
		SetHeader("Origin", c.origin()).
		SetBody(body).
		Post("/StudentDashboard.aspx/" + method)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	if res.IsError() {
		return fmt.Errorf("%s: unexpected status %s", method, res.Status())
	}

	var envelope struct {
		D json.RawMessage `json:"d"`
	}
	err = json.Unmarshal(res.Body(), &envelope)
	if err != nil {
		c.tel.ReportWarning(report_client_dashboard, method, fmt.Errorf("decode envelope: %w", err))
		return fmt.Errorf("%s: decode envelope: %w", method, err)
	}
	if len(envelope.D) == 0 || string(envelope.D) == "null" {
		return fmt.Errorf("%s: empty response", method)
	}
	err = json.Unmarshal(envelope.D, out)
	if err != nil {
		return fmt.Errorf("%s: decode: %w", method, err)
	}
	return nil
}
