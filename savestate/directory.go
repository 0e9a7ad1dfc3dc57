package savestate

// Slot is one of the save positions for the active content.
type Slot struct {
	Index    int
	Path     string
	Occupied bool
}

// Directory maps a content identifier to its slot files and tracks which of
// them exist. The result is cached per content identifier: scanning the same
// identifier twice does not touch the filesystem.
type Directory struct {
	dir     string
	fs      FileSystem
	scanned string
	slots   [SlotCount]Slot
}

// NewDirectory creates a slot directory rooted at dir.
func NewDirectory(dir string, fs FileSystem) *Directory {
	if fs == nil {
		fs = OSFileSystem{}
	}
	return &Directory{dir: dir, fs: fs}
}

// Dir returns the directory holding the slot files.
func (d *Directory) Dir() string {
	return d.dir
}

// Rescan builds the slot table for contentID. If contentID matches the last
// scanned identifier the cached table is returned unchanged.
func (d *Directory) Rescan(contentID string) [SlotCount]Slot {
	if contentID == d.scanned && contentID != "" {
		return d.slots
	}

	for i := range d.slots {
		path := SlotPath(d.dir, contentID, i)
		d.slots[i] = Slot{
			Index:    i,
			Path:     path,
			Occupied: d.fs.Exists(path),
		}
	}
	d.scanned = contentID

	return d.slots
}

// Invalidate forgets the cached identifier so the next Rescan probes again.
func (d *Directory) Invalidate() {
	d.scanned = ""
}

// Scanned returns the content identifier the table was built for.
func (d *Directory) Scanned() string {
	return d.scanned
}

// Slot returns slot i. Indexes outside 0-9 return a zero Slot and false.
func (d *Directory) Slot(i int) (Slot, bool) {
	if i < 0 || i >= SlotCount {
		return Slot{}, false
	}
	return d.slots[i], true
}

// SetOccupied updates the cached occupancy of slot i after the caller has
// written or removed its file.
func (d *Directory) SetOccupied(i int, occupied bool) {
	if i < 0 || i >= SlotCount {
		return
	}
	d.slots[i].Occupied = occupied
}

// Refresh re-probes slot i on disk and returns the new occupancy.
func (d *Directory) Refresh(i int) bool {
	if i < 0 || i >= SlotCount {
		return false
	}
	d.slots[i].Occupied = d.fs.Exists(d.slots[i].Path)
	return d.slots[i].Occupied
}
