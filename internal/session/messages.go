package session

import "fmt"

const (
	messageSummaryCompleted = "✨ 요약이 완료되었습니다!"
	messageSummaryFailedFmt = "⚠️ 요약 실패: %s"

	messageAutoUploadProgressFmt = "💬 %s 하루가 마무리되었어요. 요약을 진행하고 있습니다... (최대 1분 소요)"
	messageAutoUploadFailedFmt   = "⚠️ 자동 업로드 실패: %s"
)

func autoUploadProgressText(date string) string {
	return fmt.Sprintf(messageAutoUploadProgressFmt, date)
}

func summaryFailedText(err error) string {
	return fmt.Sprintf(messageSummaryFailedFmt, errorText(err))
}

func autoUploadFailedText(err error) string {
	return fmt.Sprintf(messageAutoUploadFailedFmt, errorText(err))
}

func errorText(err error) string {
	if err == nil {
		return "알 수 없는 오류"
	}
	return err.Error()
}
