package services

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/raf-advanced/maintenance-api/utils"
)

// MaintenanceEmailData feeds the notification templates. Field values come
// straight from the submitted form plus the allocated order code.
type MaintenanceEmailData struct {
	OrderCode        string
	Name             string
	PhoneNumber      string
	NumberOfFloors   string
	NumberOfFlats    string
	NumberOfProjects string
	Address          string
	Details          string
	SubmittedAt      string
}

// The HTML body is an RTL card matching the site's purple branding. Keep the
// inline styles; most mail clients strip <style> blocks.
const maintenanceEmailHTML = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9; direction: rtl;">
  <div style="background-color: #540f6b; color: white; padding: 20px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="margin: 0; font-size: 24px; text-align: center;">طلب صيانة المبنى</h1>
  </div>

  <div style="background-color: white; padding: 30px; border-radius: 0 0 10px 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1);">
    <h2 style="color: #540f6b; margin-top: 0; text-align: right;">تفاصيل الطلب</h2>

    <table style="width: 100%; border-collapse: collapse; margin-top: 20px; direction: rtl;">
      <tr style="border-bottom: 1px solid #eee;">
        <td style="padding: 12px 0; font-weight: bold; color: #540f6b; width: 40%; text-align: right;">رقم الطلب:</td>
        <td style="padding: 12px 0; text-align: right;">{{.OrderCode}}</td>
      </tr>
      <tr style="border-bottom: 1px solid #eee;">
        <td style="padding: 12px 0; font-weight: bold; color: #540f6b; width: 40%; text-align: right;">اسم المتصل:</td>
        <td style="padding: 12px 0; text-align: right;">{{.Name}}</td>
      </tr>
      <tr style="border-bottom: 1px solid #eee;">
        <td style="padding: 12px 0; font-weight: bold; color: #540f6b; text-align: right;">رقم الهاتف:</td>
        <td style="padding: 12px 0; text-align: right;">{{.PhoneNumber}}</td>
      </tr>
      <tr style="border-bottom: 1px solid #eee;">
        <td style="padding: 12px 0; font-weight: bold; color: #540f6b; text-align: right;">رقم الدور:</td>
        <td style="padding: 12px 0; text-align: right;">{{.NumberOfFloors}}</td>
      </tr>
      <tr style="border-bottom: 1px solid #eee;">
        <td style="padding: 12px 0; font-weight: bold; color: #540f6b; text-align: right;">رقم الشقه:</td>
        <td style="padding: 12px 0; text-align: right;">{{.NumberOfFlats}}</td>
      </tr>
      <tr style="border-bottom: 1px solid #eee;">
        <td style="padding: 12px 0; font-weight: bold; color: #540f6b; text-align: right;">رقم المشروع:</td>
        <td style="padding: 12px 0; text-align: right;">{{.NumberOfProjects}}</td>
      </tr>
      <tr style="border-bottom: 1px solid #eee;">
        <td style="padding: 12px 0; font-weight: bold; color: #540f6b; text-align: right;">العنوان/الموقع:</td>
        <td style="padding: 12px 0; text-align: right;">{{.Address}}</td>
      </tr>
      <tr>
        <td style="padding: 12px 0; font-weight: bold; color: #540f6b; vertical-align: top; text-align: right;">تفاصيل الصيانة:</td>
        <td style="padding: 12px 0; white-space: pre-wrap; text-align: right;">{{.Details}}</td>
      </tr>
    </table>

    <div style="margin-top: 30px; padding: 15px; background-color: #f8f9fa; border-radius: 5px; border-right: 4px solid #540f6b; text-align: right;">
      <p style="margin: 0; color: #666; font-size: 14px;">
        <strong>تاريخ ووقت الإرسال:</strong> {{.SubmittedAt}}
      </p>
    </div>
  </div>
</div>
`

const maintenanceEmailText = `طلب صيانة المبنى

رقم الطلب: {{.OrderCode}}
اسم المتصل: {{.Name}}
رقم الهاتف: {{.PhoneNumber}}
رقم الدور: {{.NumberOfFloors}}
رقم الشقه: {{.NumberOfFlats}}
رقم المشروع: {{.NumberOfProjects}}

العنوان/الموقع: {{.Address}}

تفاصيل الصيانة:
{{.Details}}

تاريخ ووقت الإرسال: {{.SubmittedAt}}
`

var (
	maintenanceHTMLTmpl = htmltemplate.Must(htmltemplate.New("maintenance_html").Parse(maintenanceEmailHTML))
	maintenanceTextTmpl = texttemplate.Must(texttemplate.New("maintenance_text").Parse(maintenanceEmailText))
)

var arabicWeekdays = [...]string{"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت"}

var arabicMonths = [...]string{"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو", "يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر"}

// FormatRiyadhTimestamp renders a Riyadh-local timestamp with Arabic weekday
// and month names, matching what the operations mailbox is used to reading.
func FormatRiyadhTimestamp(t time.Time) string {
	local := t.In(utils.RiyadhLocation())
	return fmt.Sprintf("%s، %d %s %d %02d:%02d",
		arabicWeekdays[local.Weekday()],
		local.Day(),
		arabicMonths[local.Month()-1],
		local.Year(),
		local.Hour(), local.Minute(),
	)
}

// MaintenanceEmailSubject builds the notification subject for a submitter name
func MaintenanceEmailSubject(name string) string {
	return fmt.Sprintf("طلب صيانة المبنى - %s", name)
}

// BuildMaintenanceEmail renders the notification for a maintenance request.
// The recipient is filled in by the caller from configuration.
func BuildMaintenanceEmail(data MaintenanceEmailData) (EmailMessage, error) {
	var html bytes.Buffer
	if err := maintenanceHTMLTmpl.Execute(&html, data); err != nil {
		return EmailMessage{}, fmt.Errorf("failed to render maintenance email HTML: %w", err)
	}

	var text bytes.Buffer
	if err := maintenanceTextTmpl.Execute(&text, data); err != nil {
		return EmailMessage{}, fmt.Errorf("failed to render maintenance email text: %w", err)
	}

	return EmailMessage{
		Subject:  MaintenanceEmailSubject(data.Name),
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}
