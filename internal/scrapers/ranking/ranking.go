// Package ranking talks to the external student ranking service.
package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"umsassist-backend/internal/components/assert"
	"umsassist-backend/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
)

const report_client_student_info = "client.student-info"

const DefaultUrl = "https://lpu-student-ranking.vercel.app/get-student-info/"

type Client struct {
	url  string
	http *resty.Client
	tel  telemetry.API
}

func NewClient(url string, tel telemetry.API) Client {
	assert.NotNil(tel)
	if url == "" {
		url = DefaultUrl
	}
	tel = telemetry.NewScopedAPI("ranking", tel)

	httpClient := resty.New()
	httpClient.SetTimeout(time.Second * 15)
	httpClient.SetHeader("Content-Type", "application/json")
	telemetry.InstrumentResty(httpClient, tel)

	return Client{
		url:  url,
		http: httpClient,
		tel:  tel,
	}
}

type studentInfoRequest struct {
	RegistrationNumber string `json:"registrationNumber"`
}

// StudentInfo returns the ranking service's json response for a student
// without interpreting it.
func (c Client) StudentInfo(ctx context.Context, regNo string) (json.RawMessage, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(studentInfoRequest{RegistrationNumber: regNo}).
		Post(c.url)
	if err != nil {
		c.tel.ReportWarning(report_client_student_info, err)
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("ranking service: unexpected status %s", res.Status())
		c.tel.ReportWarning(report_client_student_info, err)
		return nil, err
	}
	body := res.Body()
	if !json.Valid(body) {
		err := fmt.Errorf("ranking service: response is not json")
		c.tel.ReportWarning(report_client_student_info, err)
		return nil, err
	}
	return json.RawMessage(body), nil
}
