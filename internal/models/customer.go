package models

import (
	"fmt"
	"time"
)

type ConnectionType string

const (
	ConnectionHome       ConnectionType = "Home"
	ConnectionCommercial ConnectionType = "Commercial"
)

func ParseConnectionType(s string) (ConnectionType, error) {
	switch ConnectionType(s) {
	case ConnectionHome, ConnectionCommercial:
		return ConnectionType(s), nil
	}
	return "", fmt.Errorf("unknown connection type %q", s)
}

type LeadStatus string

const (
	StatusInterested       LeadStatus = "Interested"
	StatusAppointmentFixed LeadStatus = "Appointment Fixed"
	StatusNotInterested    LeadStatus = "Not Interested"
)

func ParseLeadStatus(s string) (LeadStatus, error) {
	switch LeadStatus(s) {
	case StatusInterested, StatusAppointmentFixed, StatusNotInterested:
		return LeadStatus(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// BillFile is an uploaded electricity bill kept inline as a data URL.
type BillFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// CustomerData is one captured lead. CreatedBy holds the creator's login id.
type CustomerData struct {
	ID             string         `json:"id"`
	Date           time.Time      `json:"date"`
	CreatedBy      string         `json:"createdBy"`
	CustomerName   string         `json:"customerName"`
	Mobile         string         `json:"mobile"`
	HouseNo        string         `json:"houseNo"`
	Place          string         `json:"place"`
	City           string         `json:"city"`
	District       string         `json:"district"`
	Pincode        string         `json:"pincode"`
	State          string         `json:"state"`
	Landmark       string         `json:"landmark"`
	ConnectionType ConnectionType `json:"connectionType"`
	BillFile       *BillFile      `json:"billFile,omitempty"`
	KWA            string         `json:"kwa"`
	Status         LeadStatus     `json:"status"`
	AppointmentAt  *time.Time     `json:"appointmentDateTime,omitempty"`
	Latitude       float64        `json:"latitude"`
	Longitude      float64        `json:"longitude"`
	Remarks        string         `json:"remarks"`
}
