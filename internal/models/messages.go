package models

// Fixed user-facing fallback messages. These are the only error texts the
// chat endpoint ever returns to a patient; internal detail stays in the logs.

var genericFailureMessages = map[Lang]string{
	LangTurkish: "Bir hata oluştu. Lütfen tekrar deneyin.",
	LangEnglish: "Something went wrong. Please try again.",
	LangArabic:  "حدث خطأ. يرجى المحاولة مرة أخرى.",
	LangGerman:  "Ein Fehler ist aufgetreten. Bitte versuchen Sie es erneut.",
	LangRussian: "Произошла ошибка. Пожалуйста, попробуйте снова.",
}

var timeoutRetryMessages = map[Lang]string{
	LangTurkish: "Yanıt gecikti. Lütfen kısa bir mesajla tekrar deneyin.",
	LangEnglish: "The response took too long. Please try again with a shorter message.",
	LangArabic:  "تأخر الرد. يرجى المحاولة مرة أخرى برسالة أقصر.",
	LangGerman:  "Die Antwort hat zu lange gedauert. Bitte versuchen Sie es mit einer kürzeren Nachricht erneut.",
	LangRussian: "Ответ занял слишком много времени. Попробуйте снова с более коротким сообщением.",
}

var configErrorMessages = map[Lang]string{
	LangTurkish: "Sunucu yapılandırma hatası. Lütfen daha sonra tekrar deneyin.",
	LangEnglish: "Server configuration error. Please try again later.",
	LangArabic:  "خطأ في إعدادات الخادم. يرجى المحاولة لاحقاً.",
	LangGerman:  "Serverkonfigurationsfehler. Bitte versuchen Sie es später erneut.",
	LangRussian: "Ошибка конфигурации сервера. Пожалуйста, попробуйте позже.",
}

// GenericFailureMessage returns the localized generic failure text.
func GenericFailureMessage(lang Lang) string {
	return genericFailureMessages[NormalizeLang(lang)]
}

// TimeoutRetryMessage returns the localized retry-encouraging text used when
// the model call timed out or was aborted.
func TimeoutRetryMessage(lang Lang) string {
	return timeoutRetryMessages[NormalizeLang(lang)]
}

// ConfigErrorMessage returns the localized text for a missing-credential
// configuration error.
func ConfigErrorMessage(lang Lang) string {
	return configErrorMessages[NormalizeLang(lang)]
}
