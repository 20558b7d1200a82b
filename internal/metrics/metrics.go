package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AttendanceWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cedoi", Name: "attendance_writes_total", Help: "Attendance status writes",
	}, []string{"status"})
	WindowRejections = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cedoi", Name: "window_rejections_total", Help: "Writes rejected outside the attendance window",
	})
	QrScans = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cedoi", Name: "qr_scans_total", Help: "QR scan resolutions",
	}, []string{"result"})
	OTPIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cedoi", Name: "otp_issued_total", Help: "OTP codes issued",
	})
	ExportsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cedoi", Name: "exports_generated_total", Help: "Attendance report exports",
	}, []string{"format"})
)

func init() {
	prometheus.MustRegister(AttendanceWrites, WindowRejections, QrScans, OTPIssued, ExportsGenerated)
}

func Handler() http.Handler { return promhttp.Handler() }
