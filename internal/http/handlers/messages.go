package handlers

import (
	"context"

	"videowizard/internal/middleware"
)

// User-facing error messages, en/id. The locale comes from the request
// context set by middleware.Locale.
var messages = map[string]map[string]string{
	"en": {
		"session_not_found":  "Session not found.",
		"credential_missing": "No API key selected. Set one via the integrations endpoint and retry.",
		"wrong_stage":        "This action is not available at the current step.",
		"generate_in_flight": "A video is already being generated for this session.",
		"empty_draft":        "Add a script, audio, or image before generating.",
		"read_failed":        "The uploaded file could not be read. Please upload it again.",
		"assist_unavailable": "AI assistance is temporarily unavailable. Your text was left unchanged.",
		"no_result_locator":  "The backend finished without returning a video. Please try again.",
		"submit_failed":      "The video request was rejected. Please try again.",
		"poll_failed":        "Lost track of the video job. Please try again.",
		"no_audio":           "Attach an audio file before transcribing.",
		"invalid_option":     "Unknown option value.",
		"bad_request":        "Invalid request payload.",
		"missing_file":       "A file upload is required.",
		"internal":           "Something went wrong.",
	},
	"id": {
		"session_not_found":  "Sesi tidak ditemukan.",
		"credential_missing": "Belum ada API key. Atur lewat endpoint integrasi lalu coba lagi.",
		"wrong_stage":        "Aksi ini tidak tersedia pada langkah saat ini.",
		"generate_in_flight": "Video untuk sesi ini sedang dibuat.",
		"empty_draft":        "Tambahkan naskah, audio, atau gambar sebelum membuat video.",
		"read_failed":        "File yang diunggah tidak dapat dibaca. Silakan unggah ulang.",
		"assist_unavailable": "Bantuan AI sedang tidak tersedia. Teks Anda tidak diubah.",
		"no_result_locator":  "Backend selesai tanpa mengembalikan video. Silakan coba lagi.",
		"submit_failed":      "Permintaan video ditolak. Silakan coba lagi.",
		"poll_failed":        "Kehilangan jejak proses video. Silakan coba lagi.",
		"no_audio":           "Lampirkan file audio sebelum transkripsi.",
		"invalid_option":     "Nilai opsi tidak dikenal.",
		"bad_request":        "Payload permintaan tidak valid.",
		"missing_file":       "Unggahan file diperlukan.",
		"internal":           "Terjadi kesalahan.",
	},
}

func localizedMessage(ctx context.Context, code string) string {
	locale := middleware.LocaleFromContext(ctx)
	if catalog, ok := messages[locale]; ok {
		if msg, ok := catalog[code]; ok {
			return msg
		}
	}
	if msg, ok := messages["en"][code]; ok {
		return msg
	}
	return code
}
