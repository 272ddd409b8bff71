// Package exif extracts the capture time embedded in uploaded photos.
package exif

import (
	"fmt"
	"time"

	exiflib "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
)

// exifTimeLayout is the datetime format mandated by the EXIF standard.
const exifTimeLayout = "2006:01:02 15:04:05"

// ExtractImageDate returns the capture time recorded in the image's EXIF
// block. It prefers DateTimeOriginal and falls back to DateTimeDigitized
// and DateTime. The error is non-nil when no parseable date tag exists;
// callers are expected to substitute the current time.
func ExtractImageDate(data []byte) (time.Time, error) {
	// JPEG segment walk first: cheaper and stricter than a raw byte scan.
	if rawExif, err := exifFromJpeg(data); err == nil {
		if t, err := dateFromRawExif(rawExif); err == nil {
			return t, nil
		}
	}

	// Fall back to scanning the whole byte stream for an EXIF block. This
	// also covers non-JPEG containers that embed EXIF.
	rawExif, err := exiflib.SearchAndExtractExif(data)
	if err != nil {
		return time.Time{}, fmt.Errorf("no exif data found: %w", err)
	}

	return dateFromRawExif(rawExif)
}

func exifFromJpeg(data []byte) ([]byte, error) {
	jmp := jpegstructure.NewJpegMediaParser()

	intfc, err := jmp.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse jpeg: %w", err)
	}

	segments, ok := intfc.(*jpegstructure.SegmentList)
	if !ok {
		return nil, fmt.Errorf("unexpected jpeg parse result")
	}

	_, rawExif, err := segments.Exif()
	if err != nil {
		return nil, fmt.Errorf("find exif segment: %w", err)
	}

	return rawExif, nil
}

func dateFromRawExif(rawExif []byte) (time.Time, error) {
	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return time.Time{}, err
	}

	ti := exiflib.NewTagIndex()
	_, index, err := exiflib.Collect(im, ti, rawExif)
	if err != nil {
		return time.Time{}, fmt.Errorf("collect exif tags: %w", err)
	}

	// Candidate tags in order of preference.
	candidates := []struct {
		inExifIfd bool
		tagName   string
	}{
		{true, "DateTimeOriginal"},
		{true, "DateTimeDigitized"},
		{false, "DateTime"},
	}

	for _, c := range candidates {
		ifd := index.RootIfd
		if c.inExifIfd {
			child, err := index.RootIfd.ChildWithIfdPath(exifcommon.IfdExifStandardIfdIdentity)
			if err != nil {
				continue
			}
			ifd = child
		}

		results, err := ifd.FindTagWithName(c.tagName)
		if err != nil || len(results) == 0 {
			continue
		}

		value, err := results[0].Value()
		if err != nil {
			continue
		}

		dateStr, ok := value.(string)
		if !ok {
			continue
		}

		if t, err := time.Parse(exifTimeLayout, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("no usable datetime tag")
}
