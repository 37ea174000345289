package handler

import (
	"encoding/json"
	"net/http"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/otp"
	"lakshmikitchen/internal/service"
)

type registerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Location    string `json:"location"`
	HomeAddress string `json:"home_address"`
	Role        string `json:"role"`
}

// RegisterHandler starts the customer OTP workflow: no account row exists
// until the emailed code is verified.
func RegisterHandler(otpSvc *service.OTPService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.New(apperr.KindInvalidRequest, "invalid json"))
			return
		}

		err := otpSvc.IssueCustomerCode(r.Context(), otp.Pending{
			Name:        req.Name,
			Email:       req.Email,
			Password:    req.Password,
			PhoneNumber: req.PhoneNumber,
			Location:    req.Location,
			HomeAddress: req.HomeAddress,
			Role:        req.Role,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Verification code sent to your email. Enter it to complete registration.",
		})
	}
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func VerifyOTPHandler(otpSvc *service.OTPService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.New(apperr.KindInvalidRequest, "invalid json"))
			return
		}

		if _, err := otpSvc.VerifyCustomerCode(r.Context(), req.Email, req.OTP); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Registration successful. You can now login with your email and password.",
		})
	}
}

type staffOTPRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// SendStaffOTPHandler starts the staff OTP workflow; callers are already
// behind the staff middleware.
func SendStaffOTPHandler(otpSvc *service.OTPService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req staffOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.New(apperr.KindInvalidRequest, "invalid json"))
			return
		}

		err := otpSvc.IssueStaffCode(r.Context(), otp.Pending{
			Username:    req.Username,
			Email:       req.Email,
			Password:    req.Password,
			Name:        req.Name,
			PhoneNumber: req.PhoneNumber,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Verification code sent. Enter it to create the staff account.",
		})
	}
}

func VerifyStaffOTPHandler(otpSvc *service.OTPService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.New(apperr.KindInvalidRequest, "invalid json"))
			return
		}

		staff, err := otpSvc.VerifyStaffCode(r.Context(), req.Email, req.OTP)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, staff)
	}
}
