package imaging

// Staging is the list of accepted images awaiting form submission, backing
// the admin preview grid. Single writer per admin session.
type Staging struct {
	images []Image
}

func (s *Staging) Add(img Image) {
	s.images = append(s.images, img)
}

// Remove deletes one preview entry. Returns true when the list became
// empty, which the UI uses to also reset the file picker.
func (s *Staging) Remove(index int) bool {
	if index >= 0 && index < len(s.images) {
		s.images = append(s.images[:index], s.images[index+1:]...)
	}
	return len(s.images) == 0
}

// Replace loads an existing product's persisted images into the staging
// list when edit mode opens.
func (s *Staging) Replace(imgs []Image) {
	s.images = append(s.images[:0:0], imgs...)
}

func (s *Staging) Clear() {
	s.images = nil
}

func (s *Staging) Len() int {
	return len(s.images)
}

// Images returns a copy of the staged entries in selection order.
func (s *Staging) Images() []Image {
	out := make([]Image, len(s.images))
	copy(out, s.images)
	return out
}

// Data returns just the encoded payloads, the shape the catalog document
// stores.
func (s *Staging) Data() []string {
	out := make([]string, len(s.images))
	for i, img := range s.images {
		out[i] = img.Data
	}
	return out
}
