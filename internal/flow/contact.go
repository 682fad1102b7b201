package flow

import (
	"regexp"
	"strings"

	"github.com/consultflow/consultflow/internal/models"
)

// Default clinic contact details appended on explicit contact intent. Both
// are overridable through orchestrator options so deployments can point at
// regional lines.
const (
	DefaultClinicPhone = "+90 216 464 14 11"
	DefaultBookingURL  = "https://www.asmedhairtransplant.com/consultation"
)

// phonePattern matches an international phone number: country code followed
// by at least seven digits allowing common separators.
var phonePattern = regexp.MustCompile(`\+\d{1,3}[\d\s().-]{7,}\d`)

// contactLeadIns localizes the header line of an appended contact block.
var contactLeadIns = map[models.Lang]string{
	models.LangTurkish: "Bize doğrudan ulaşabilirsiniz:",
	models.LangEnglish: "You can reach us directly:",
	models.LangArabic:  "يمكنك التواصل معنا مباشرة:",
	models.LangGerman:  "Sie können uns direkt erreichen:",
	models.LangRussian: "Вы можете связаться с нами напрямую:",
}

// bookingLeadIns localizes the booking-link line.
var bookingLeadIns = map[models.Lang]string{
	models.LangTurkish: "Online konsültasyon randevusu:",
	models.LangEnglish: "Book an online consultation:",
	models.LangArabic:  "احجز استشارة عبر الإنترنت:",
	models.LangGerman:  "Online-Beratung buchen:",
	models.LangRussian: "Записаться на онлайн-консультацию:",
}

// AppendContactInfo appends the clinic contact details a reply is missing.
// Only the absent pieces are added: the phone line when no international
// phone pattern is present, the booking line when the booking URL is absent.
// A reply already carrying both is returned unchanged. The result always has
// the original reply as an exact prefix so callers can stream just the tail.
func AppendContactInfo(reply string, lang models.Lang, phone, bookingURL string) string {
	lang = models.NormalizeLang(lang)

	needPhone := !phonePattern.MatchString(reply)
	needBooking := !strings.Contains(reply, bookingURL)
	if !needPhone && !needBooking {
		return reply
	}

	var b strings.Builder
	b.WriteString(reply)
	b.WriteString("\n")
	if needPhone {
		b.WriteString("\n")
		b.WriteString(contactLeadIns[lang])
		b.WriteString(" ")
		b.WriteString(phone)
	}
	if needBooking {
		b.WriteString("\n")
		b.WriteString(bookingLeadIns[lang])
		b.WriteString(" ")
		b.WriteString(bookingURL)
	}
	return b.String()
}
