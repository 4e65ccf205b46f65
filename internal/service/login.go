package service

import (
	"errors"
	"net/http"
	"umsassist-backend/internal/profile"
	"umsassist-backend/internal/scrapers/ums"
)

const (
	report_service_login        = "service.login"
	report_service_student_rank = "service.student-rank"
)

type loginRequest struct {
	RegNo    string `json:"regNo"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success     bool   `json:"success"`
	StudentData any    `json:"student_data"`
	Source      string `json:"source,omitempty"`
}

type loginFailedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Login scrapes the student's portal with the given credentials. When the
// portal cannot be scraped for any reason other than rejected credentials
// the cached record is returned instead.
func (s Service) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	decodeBody(r, &req)
	if req.RegNo == "" || req.Password == "" {
		WriteError(w, invalid("Registration number and password are required"))
		return
	}

	data, err := s.portal.Scrape(ctx, req.RegNo, req.Password)
	if errors.Is(err, ums.ErrLoginFailed) {
		WriteJSON(w, http.StatusUnauthorized, loginFailedResponse{
			Success: false,
			Message: "Invalid credentials",
		})
		return
	}
	if err != nil {
		s.tel.ReportWarning(report_service_login, err, req.RegNo)

		cached, found, cacheErr := s.store.GetStudent(ctx, req.RegNo)
		if cacheErr == nil && found {
			WriteJSON(w, http.StatusOK, loginResponse{
				Success:     true,
				StudentData: cached,
				Source:      "cache",
			})
			return
		}
		WriteFailure(w, "Failed to fetch student data", err)
		return
	}

	err = s.store.SaveStudent(ctx, req.RegNo, profile.NewRecord(data))
	if err != nil {
		s.tel.ReportWarning(report_service_login, err, req.RegNo)
	}

	WriteJSON(w, http.StatusOK, loginResponse{
		Success:     true,
		StudentData: profile.NewDisplay(data),
	})
}

type studentRankRequest struct {
	RegistrationNumber string `json:"registrationNumber"`
}

// StudentRank forwards the ranking service's response for a student as is.
func (s Service) StudentRank(w http.ResponseWriter, r *http.Request) {
	var req studentRankRequest
	decodeBody(r, &req)
	if req.RegistrationNumber == "" {
		WriteError(w, invalid("Registration number is required"))
		return
	}

	info, err := s.ranking.StudentInfo(r.Context(), req.RegistrationNumber)
	if err != nil {
		s.tel.ReportWarning(report_service_student_rank, err, req.RegistrationNumber)
		WriteFailure(w, "Failed to connect to rank service", err)
		return
	}
	WriteJSON(w, http.StatusOK, info)
}
