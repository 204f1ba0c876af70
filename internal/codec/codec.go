package codec

import (
	"encoding/json"
	"fmt"

	"github.com/idmgo/idm/internal/domain"

	"github.com/spf13/cast"
)

// Record is the persisted form of one download, a flat JSON object.
type Record map[string]interface{}

// Persisted attribute names
const (
	KeyID              = "id"
	KeyURL             = "url"
	KeyEffectiveURL    = "eff_url"
	KeyName            = "name"
	KeyFolder          = "folder"
	KeyType            = "type"
	KeySize            = "size"
	KeyDownloaded      = "downloaded"
	KeyResumable       = "resumable"
	KeyProgress        = "progress"
	KeyStatus          = "status"
	KeySpeed           = "speed"
	KeyTimeLeft        = "time_left"
	KeyLiveConnections = "live_connections"
	KeyMaxConnections  = "max_connections"
	KeyAudioURL        = "audio_url"
	KeyAudioSize       = "audio_size"
	KeyThumbnailURL    = "thumbnail_url"
	KeyInfoHash        = "info_hash"
	KeyAddedOn         = "added_on"
)

// Fields is the allow-list of attributes read from a record, in the order
// they are applied.
var Fields = []string{
	KeyID,
	KeyURL,
	KeyEffectiveURL,
	KeyName,
	KeyFolder,
	KeyType,
	KeySize,
	KeyDownloaded,
	KeyResumable,
	KeyProgress,
	KeyStatus,
	KeySpeed,
	KeyTimeLeft,
	KeyLiveConnections,
	KeyMaxConnections,
	KeyAudioURL,
	KeyAudioSize,
	KeyThumbnailURL,
	KeyInfoHash,
	KeyAddedOn,
}

// FieldError reports a recognized attribute whose value has the wrong type.
type FieldError struct {
	Key   string
	Value interface{}
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: invalid value %v (%T): %v", e.Key, e.Value, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ToRecord captures d as a flat attribute map. The engine queue is dropped
// from d so it is never written.
func ToRecord(d *domain.Download) Record {
	d.Queue = nil

	return Record{
		KeyID:              d.ID,
		KeyURL:             d.URL,
		KeyEffectiveURL:    d.EffectiveURL,
		KeyName:            d.Name,
		KeyFolder:          d.Folder,
		KeyType:            d.Type,
		KeySize:            d.Size,
		KeyDownloaded:      d.Downloaded,
		KeyResumable:       d.Resumable,
		KeyProgress:        d.Progress,
		KeyStatus:          string(d.Status),
		KeySpeed:           d.Speed,
		KeyTimeLeft:        d.TimeLeft,
		KeyLiveConnections: d.LiveConnections,
		KeyMaxConnections:  d.MaxConnections,
		KeyAudioURL:        d.AudioURL,
		KeyAudioSize:       d.AudioSize,
		KeyThumbnailURL:    d.ThumbnailURL,
		KeyInfoHash:        d.InfoHash,
		KeyAddedOn:         d.AddedOn,
	}
}

// FromRecord builds a default download and applies the recognized keys of r.
// Unknown keys are ignored, missing keys keep the default. Any recognized
// key with an unusable value rejects the whole record.
func FromRecord(r Record) (*domain.Download, error) {
	d := domain.NewDownload()

	for _, key := range Fields {
		value, ok := r[key]
		if !ok || value == nil {
			continue
		}

		if err := apply(d, key, value); err != nil {
			return nil, &FieldError{Key: key, Value: value, Err: err}
		}
	}

	return d, nil
}

func apply(d *domain.Download, key string, value interface{}) error {
	switch key {
	case KeyID:
		return setString(&d.ID, value)
	case KeyURL:
		return setString(&d.URL, value)
	case KeyEffectiveURL:
		return setString(&d.EffectiveURL, value)
	case KeyName:
		return setString(&d.Name, value)
	case KeyFolder:
		return setString(&d.Folder, value)
	case KeyType:
		return setString(&d.Type, value)
	case KeySize:
		return setInt64(&d.Size, value)
	case KeyDownloaded:
		return setInt64(&d.Downloaded, value)
	case KeyResumable:
		return setBool(&d.Resumable, value)
	case KeyProgress:
		return setFloat64(&d.Progress, value)
	case KeyStatus:
		s, err := cast.ToStringE(value)
		if err != nil {
			return err
		}
		d.Status = domain.Status(s)
	case KeySpeed:
		return setMeasurement(&d.Speed, value)
	case KeyTimeLeft:
		return setMeasurement(&d.TimeLeft, value)
	case KeyLiveConnections:
		return setInt(&d.LiveConnections, value)
	case KeyMaxConnections:
		return setInt(&d.MaxConnections, value)
	case KeyAudioURL:
		return setString(&d.AudioURL, value)
	case KeyAudioSize:
		return setInt64(&d.AudioSize, value)
	case KeyThumbnailURL:
		return setString(&d.ThumbnailURL, value)
	case KeyInfoHash:
		return setString(&d.InfoHash, value)
	case KeyAddedOn:
		return setInt64(&d.AddedOn, value)
	}

	return nil
}

func setString(dst *string, value interface{}) error {
	s, err := cast.ToStringE(value)
	if err != nil {
		return err
	}
	*dst = s
	return nil
}

// integer keeps whole JSON numbers exact and lets fractional ones truncate.
func integer(value interface{}) interface{} {
	num, ok := value.(json.Number)
	if !ok {
		return value
	}
	if _, err := num.Int64(); err == nil {
		return value
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return value
}

func setInt64(dst *int64, value interface{}) error {
	n, err := cast.ToInt64E(integer(value))
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setInt(dst *int, value interface{}) error {
	n, err := cast.ToIntE(integer(value))
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setFloat64(dst *float64, value interface{}) error {
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func setBool(dst *bool, value interface{}) error {
	b, err := cast.ToBoolE(value)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

// setMeasurement accepts a number or the "---" placeholder older files use.
func setMeasurement(dst *int64, value interface{}) error {
	if s, ok := value.(string); ok && s == domain.UnknownDisplay {
		*dst = domain.Unknown
		return nil
	}
	return setInt64(dst, value)
}
