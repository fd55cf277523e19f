// Package platform wraps the host notification service.
package platform

// AppName identifies the application to the notification service.
const AppName = "Numbit"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Timeout is the display time in milliseconds where supported. Zero uses
	// the platform default.
	Timeout int32
}

func (o Options) timeout() int32 {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return 5000
}
