package resource

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/toid-audio/toid/wave"
	"gopkg.in/yaml.v3"
)

type (
	// Manifest lists the resources of a song. File paths are relative to the
	// directory of the manifest.
	//
	//	waves:
	//	  hall: ir/hall.wav
	//	kits:
	//	  808:
	//	    kick: 808/kick.wav
	//	banks:
	//	  piano:
	//	    - name: grand
	//	      regions:
	//	        - {file: piano/c4.wav, root: 60, low: 0, high: 127}
	Manifest struct {
		Waves map[string]string            `yaml:"waves,omitempty"`
		Kits  map[string]map[string]string `yaml:"kits,omitempty"`
		Banks map[string][]PresetFile      `yaml:"banks,omitempty"`
	}

	PresetFile struct {
		Name    string       `yaml:"name"`
		Regions []RegionFile `yaml:"regions"`
	}

	RegionFile struct {
		File string `yaml:"file"`
		Root uint8  `yaml:"root"`
		Low  uint8  `yaml:"low"`
		High uint8  `yaml:"high"`
	}
)

// LoadManifest reads the manifest at path and loads everything it lists into
// a new Manager.
func LoadManifest(path string) (*Manager, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read resource manifest: %w", err)
	}
	var man Manifest
	if err := yaml.Unmarshal(b, &man); err != nil {
		return nil, fmt.Errorf("could not parse resource manifest %v: %w", path, err)
	}
	m := NewManager()
	if err := man.Load(filepath.Dir(path), m); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads the files listed in the manifest, relative to dir, and adds them
// to m. A file referenced several times is read only once.
func (man *Manifest) Load(dir string, m *Manager) error {
	cache := map[string]*wave.Wave{}
	read := func(file string) (*wave.Wave, error) {
		if w, ok := cache[file]; ok {
			return w, nil
		}
		p := file
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		w, err := wave.Parse(b)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", p, err)
		}
		cache[file] = w
		return w, nil
	}
	for _, name := range sortedKeys(man.Waves) {
		w, err := read(man.Waves[name])
		if err != nil {
			return fmt.Errorf("wave %q: %w", name, err)
		}
		m.AddWave(name, w)
	}
	for _, kit := range sortedKeys(man.Kits) {
		sounds := man.Kits[kit]
		for _, sound := range sortedKeys(sounds) {
			w, err := read(sounds[sound])
			if err != nil {
				return fmt.Errorf("kit %q sound %q: %w", kit, sound, err)
			}
			m.AddWave(path.Join(kit, sound), w)
		}
	}
	for _, name := range sortedKeys(man.Banks) {
		bank := NewBank()
		for _, pf := range man.Banks[name] {
			regions := make([]Region, 0, len(pf.Regions))
			for _, rf := range pf.Regions {
				w, err := read(rf.File)
				if err != nil {
					return fmt.Errorf("bank %q preset %q: %w", name, pf.Name, err)
				}
				regions = append(regions, Region{Wave: w, Root: rf.Root, Low: rf.Low, High: rf.High})
			}
			if _, err := bank.AddPreset(pf.Name, regions...); err != nil {
				return fmt.Errorf("bank %q: %w", name, err)
			}
		}
		m.AddBank(name, bank)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
