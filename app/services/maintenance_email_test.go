package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEmailData() MaintenanceEmailData {
	return MaintenanceEmailData{
		OrderCode:        "104",
		Name:             "Saleh Alqahtani",
		PhoneNumber:      "+966512345678",
		NumberOfFloors:   "3",
		NumberOfFlats:    "12",
		NumberOfProjects: "A12",
		Address:          "King Fahd Road, Riyadh",
		Details:          "Water leakage in the bathroom ceiling",
		SubmittedAt:      "الخميس، 27 أغسطس 2026 14:30",
	}
}

func TestBuildMaintenanceEmail(t *testing.T) {
	msg, err := BuildMaintenanceEmail(sampleEmailData())
	require.NoError(t, err)

	t.Run("subject", func(t *testing.T) {
		assert.Equal(t, "طلب صيانة المبنى - Saleh Alqahtani", msg.Subject)
	})

	t.Run("html body", func(t *testing.T) {
		// Branding and RTL layout
		assert.Contains(t, msg.HTMLBody, "#540f6b")
		assert.Contains(t, msg.HTMLBody, "direction: rtl")

		// Every field label and value
		for _, label := range []string{
			"رقم الطلب",
			"اسم المتصل",
			"رقم الهاتف",
			"رقم الدور",
			"رقم الشقه",
			"رقم المشروع",
			"العنوان/الموقع",
			"تفاصيل الصيانة",
			"تاريخ ووقت الإرسال",
		} {
			assert.Contains(t, msg.HTMLBody, label)
		}
		assert.Contains(t, msg.HTMLBody, "104")
		assert.Contains(t, msg.HTMLBody, "Saleh Alqahtani")
		assert.Contains(t, msg.HTMLBody, "+966512345678")
		assert.Contains(t, msg.HTMLBody, "King Fahd Road, Riyadh")
		assert.Contains(t, msg.HTMLBody, "Water leakage in the bathroom ceiling")
	})

	t.Run("text body", func(t *testing.T) {
		assert.Contains(t, msg.TextBody, "رقم الطلب: 104")
		assert.Contains(t, msg.TextBody, "اسم المتصل: Saleh Alqahtani")
		assert.Contains(t, msg.TextBody, "Water leakage in the bathroom ceiling")
	})

	t.Run("recipient left to caller", func(t *testing.T) {
		assert.Empty(t, msg.To)
	})
}

func TestBuildMaintenanceEmail_EscapesHTML(t *testing.T) {
	data := sampleEmailData()
	data.Details = `<script>alert("x")</script>`

	msg, err := BuildMaintenanceEmail(data)
	require.NoError(t, err)
	assert.NotContains(t, msg.HTMLBody, "<script>")
	// The text body is not HTML and keeps the raw content
	assert.Contains(t, msg.TextBody, `<script>alert("x")</script>`)
}

func TestFormatRiyadhTimestamp(t *testing.T) {
	// 2026-08-27 11:30 UTC is 14:30 in Riyadh (UTC+3), a Thursday
	ts := time.Date(2026, time.August, 27, 11, 30, 0, 0, time.UTC)
	got := FormatRiyadhTimestamp(ts)

	assert.Contains(t, got, "الخميس")
	assert.Contains(t, got, "أغسطس")
	assert.Contains(t, got, "27")
	assert.Contains(t, got, "2026")
	assert.Contains(t, got, "14:30")
}
