package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"fieldcrm/internal/middleware"
	"fieldcrm/internal/models"

	"github.com/gin-gonic/gin"
)

const appointmentLayout = "2006-01-02T15:04"

type leadForm struct {
	CustomerName   string `form:"customerName" validate:"required"`
	Mobile         string `form:"mobile" validate:"required,number,len=10"`
	HouseNo        string `form:"houseNo"`
	Place          string `form:"place"`
	City           string `form:"city"`
	District       string `form:"district"`
	Pincode        string `form:"pincode"`
	State          string `form:"state"`
	Landmark       string `form:"landmark"`
	ConnectionType string `form:"connectionType" validate:"required,oneof=Home Commercial"`
	KWA            string `form:"kwa"`
	Status         string `form:"status" validate:"required,oneof='Interested' 'Appointment Fixed' 'Not Interested'"`
	AppointmentAt  string `form:"appointmentDateTime" validate:"omitempty,datetime=2006-01-02T15:04"`
	Latitude       string `form:"latitude" validate:"omitempty,latitude"`
	Longitude      string `form:"longitude" validate:"omitempty,longitude"`
	Remarks        string `form:"remarks"`
}

func (f *leadForm) normalize() {
	trimAll(&f.CustomerName, &f.Mobile, &f.HouseNo, &f.Place, &f.City, &f.District,
		&f.Pincode, &f.State, &f.Landmark, &f.ConnectionType, &f.KWA, &f.Status,
		&f.AppointmentAt, &f.Latitude, &f.Longitude, &f.Remarks)
}

// lead converts a validated form. The appointment is kept only for
// "Appointment Fixed" leads.
func (f leadForm) lead(loc *time.Location) models.CustomerData {
	conn, _ := models.ParseConnectionType(f.ConnectionType)
	status, _ := models.ParseLeadStatus(f.Status)
	lat, _ := strconv.ParseFloat(f.Latitude, 64)
	lon, _ := strconv.ParseFloat(f.Longitude, 64)

	data := models.CustomerData{
		CustomerName:   f.CustomerName,
		Mobile:         f.Mobile,
		HouseNo:        f.HouseNo,
		Place:          f.Place,
		City:           f.City,
		District:       f.District,
		Pincode:        f.Pincode,
		State:          f.State,
		Landmark:       f.Landmark,
		ConnectionType: conn,
		KWA:            f.KWA,
		Status:         status,
		Latitude:       lat,
		Longitude:      lon,
		Remarks:        f.Remarks,
	}
	if status == models.StatusAppointmentFixed && f.AppointmentAt != "" {
		if at, err := time.ParseInLocation(appointmentLayout, f.AppointmentAt, loc); err == nil {
			data.AppointmentAt = &at
		}
	}
	return data
}

func (h *Handler) leadPage(c *gin.Context, status int, form leadForm, errs fieldErrors) {
	user, _ := middleware.CurrentUser(c)
	render(c, status, "create_data.html", gin.H{
		"form":         form,
		"errors":       errs,
		"today":        h.store.Today(),
		"createdBy":    user.LoginID,
		"geoTimeoutMs": h.opts.GeoTimeout.Milliseconds(),
	})
}

func (h *Handler) ShowCreateData(c *gin.Context) {
	h.leadPage(c, http.StatusOK, leadForm{
		ConnectionType: string(models.ConnectionHome),
		Status:         string(models.StatusInterested),
	}, fieldErrors{})
}

func (h *Handler) CreateData(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	var form leadForm
	_ = c.ShouldBind(&form)
	form.normalize()

	errs := check(form)
	bill, problem := h.readBill(c)
	if problem != "" {
		if errs == nil {
			errs = fieldErrors{}
		}
		errs["billFile"] = problem
	}
	if len(errs) > 0 {
		h.leadPage(c, http.StatusBadRequest, form, errs)
		return
	}

	data := form.lead(h.store.Location())
	data.Date = h.store.Now()
	data.CreatedBy = user.LoginID
	data.BillFile = bill

	saved := h.store.AddCustomerData(ctx, data)
	h.metrics.LeadCreated()
	h.log.Info(h.log.WithField(ctx, "lead_id", saved.ID), "customers.created")

	flash(c, "Data saved successfully!")
	c.Redirect(http.StatusFound, middleware.DashboardPath)
}

const (
	billTooLarge   = "File is too large"
	billUnreadable = "Could not read the uploaded file"
)

// readBill turns the optional bill upload into an inline data URL. The
// string result is a message for the form when the upload is rejected.
func (h *Handler) readBill(c *gin.Context) (*models.BillFile, string) {
	fh, err := c.FormFile("billFile")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, ""
		}
		h.log.Warn(c.Request.Context(), "customers.bill_read_failed", err)
		return nil, billUnreadable
	}
	if h.opts.MaxUploadBytes > 0 && fh.Size > h.opts.MaxUploadBytes {
		return nil, billTooLarge
	}

	content, err := readUpload(fh)
	if err != nil {
		h.log.Warn(c.Request.Context(), "customers.bill_read_failed", err)
		return nil, billUnreadable
	}
	return &models.BillFile{Name: fh.Filename, Content: content}, ""
}

func readUpload(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	mime := fh.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(raw)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}
