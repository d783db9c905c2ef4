package core

// AudioDevice is an audio output known to the jukebox host.
// A nil DeviceID selects the system default output.
type AudioDevice struct {
	DeviceID    *string `json:"device_id"`
	Description string  `json:"description"`
}

// IsDefault returns true if the device is the system default output.
func (d AudioDevice) IsDefault() bool {
	return d.DeviceID == nil
}

// ID returns the device id, or an empty string for the default output.
func (d AudioDevice) ID() string {
	if d.DeviceID == nil {
		return ""
	}
	return *d.DeviceID
}

// Label returns a human-readable name for the device.
func (d AudioDevice) Label() string {
	if d.Description != "" {
		return d.Description
	}
	if d.DeviceID == nil {
		return "System default"
	}
	return *d.DeviceID
}

// Same reports whether two devices refer to the same output.
func (d AudioDevice) Same(other AudioDevice) bool {
	if d.DeviceID == nil || other.DeviceID == nil {
		return d.DeviceID == nil && other.DeviceID == nil
	}
	return *d.DeviceID == *other.DeviceID
}

// DeviceIDPtr returns a pointer to id, or nil when id is empty.
func DeviceIDPtr(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
