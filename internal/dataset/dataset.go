// Package dataset models labeling datasets and their on-disk storage.
package dataset

// Well-known interface types.
const (
	InterfaceVideoSegmentation   = "video_segmentation"
	InterfaceImageClassification = "image_classification"
	InterfaceImageSegmentation   = "image_segmentation"
)

// Dataset is a labeling dataset document.
type Dataset struct {
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	Interface Interface `json:"interface" yaml:"interface"`
	Samples   []Sample  `json:"samples" yaml:"samples" validate:"dive"`
}

// Interface describes how samples are labeled.
type Interface struct {
	Type        string   `json:"type" yaml:"type" validate:"required"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Labels      []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Sample is a single item of the dataset. At most one of the media fields is
// normally set.
type Sample struct {
	ID           string   `json:"_id,omitempty" yaml:"_id,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	VideoURL     string   `json:"videoUrl,omitempty" yaml:"videoUrl,omitempty"`
	AudioURL     string   `json:"audioUrl,omitempty" yaml:"audioUrl,omitempty"`
	PDFURL       string   `json:"pdfUrl,omitempty" yaml:"pdfUrl,omitempty"`
	Document     string   `json:"document,omitempty" yaml:"document,omitempty"`
	VideoFrameAt *float64 `json:"videoFrameAt,omitempty" yaml:"videoFrameAt,omitempty"`
	SourceID     string   `json:"sourceId,omitempty" yaml:"sourceId,omitempty"`
	Segment      *Segment `json:"segment,omitempty" yaml:"segment,omitempty" validate:"omitempty"`
	Annotation   any      `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

// Segment is a rectangular region of a source image in relative units (0..1).
type Segment struct {
	X      float64 `json:"x" yaml:"x" validate:"gte=0,lt=1"`
	Y      float64 `json:"y" yaml:"y" validate:"gte=0,lt=1"`
	Width  float64 `json:"width" yaml:"width" validate:"gt=0,lte=1"`
	Height float64 `json:"height" yaml:"height" validate:"gt=0,lte=1"`
}

// HasMedia reports whether the sample references any content to label.
func (s Sample) HasMedia() bool {
	return s.ImageURL != "" || s.VideoURL != "" || s.AudioURL != "" || s.PDFURL != "" || s.Document != ""
}

// URLFields returns pointers to every URL-bearing field so callers can rewrite them in place.
func (s *Sample) URLFields() []*string {
	return []*string{&s.ImageURL, &s.VideoURL, &s.AudioURL, &s.PDFURL}
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := &Dataset{
		Name: d.Name,
		Interface: Interface{
			Type:        d.Interface.Type,
			Description: d.Interface.Description,
			Labels:      append([]string(nil), d.Interface.Labels...),
		},
		Samples: make([]Sample, len(d.Samples)),
	}
	for i, s := range d.Samples {
		out.Samples[i] = s.clone()
	}
	return out
}

func (s Sample) clone() Sample {
	out := s
	if s.VideoFrameAt != nil {
		v := *s.VideoFrameAt
		out.VideoFrameAt = &v
	}
	if s.Segment != nil {
		seg := *s.Segment
		out.Segment = &seg
	}
	out.Annotation = cloneValue(s.Annotation)
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = cloneValue(val)
		}
		return m
	case []any:
		list := make([]any, len(t))
		for i, val := range t {
			list[i] = cloneValue(val)
		}
		return list
	default:
		return v
	}
}
