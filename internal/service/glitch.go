package service

import (
	"context"
	"net/http"
	"umsassist-backend/internal/store"
)

const report_service_notify_glitch = "service.notify-glitch"

const (
	unknownReporter   = "Unknown User"
	unknownReporterNo = "Unknown"
)

type reportGlitchRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	UserInfo    struct {
		RegNo string `json:"regNo"`
		Name  string `json:"name"`
	} `json:"userInfo"`
}

type reportGlitchResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ReportId int64  `json:"report_id"`
}

func (s Service) ReportGlitch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req reportGlitchRequest
	decodeBody(r, &req)
	if req.Type == "" || req.Description == "" {
		WriteError(w, invalid("Type and description are required"))
		return
	}

	report := store.GlitchReport{
		Type:        req.Type,
		Description: req.Description,
		UserRegNo:   req.UserInfo.RegNo,
		UserName:    req.UserInfo.Name,
	}
	if report.UserRegNo == "" {
		report.UserRegNo = unknownReporterNo
	}
	if report.UserName == "" {
		report.UserName = unknownReporter
	}

	id, err := s.store.SaveGlitchReport(ctx, report)
	if err != nil {
		WriteFailure(w, "Failed to submit glitch report", err)
		return
	}

	// the report is saved, a notification that does not go out is only logged
	err = s.notifier.Notify(context.WithoutCancel(ctx), id, report)
	if err != nil {
		s.tel.ReportWarning(report_service_notify_glitch, err, id)
	}

	WriteJSON(w, http.StatusOK, reportGlitchResponse{
		Success:  true,
		Message:  "Glitch report submitted successfully",
		ReportId: id,
	})
}
