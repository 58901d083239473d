package persist

import (
	"path/filepath"

	"github.com/beevik/etree"

	"github.com/modforge/modforge/pkg/discovery"
	"github.com/modforge/modforge/pkg/errors"
	"github.com/modforge/modforge/pkg/meta"
	"github.com/modforge/modforge/pkg/mods"
)

// ManifestFileName is the XML manifest of all metadata edits in a mod,
// written for interchange with external editing tools
const ManifestFileName = "meta_manifest.xml"

// ManifestEdit locates one metadata edit inside a mod's option tree
type ManifestEdit struct {
	Group  string
	Option string
	Edit   meta.Edit
}

// WriteMetaManifest exports every metadata edit of every option as XML
func WriteMetaManifest(fsys discovery.FS, m *mods.Mod) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("manifest")
	root.CreateAttr("mod", m.Name)

	for _, g := range m.Groups {
		groupEl := root.CreateElement("group")
		groupEl.CreateAttr("name", g.Name())
		groupEl.CreateAttr("kind", string(g.Kind()))

		for i := 0; i < g.Len(); i++ {
			o := g.OptionAt(i)
			optionEl := groupEl.CreateElement("option")
			optionEl.CreateAttr("name", o.Name)

			for _, e := range o.Meta.List() {
				editEl := optionEl.CreateElement("edit")
				editEl.CreateAttr("kind", string(e.Kind))
				editEl.CreateAttr("target", e.Target)
				editEl.CreateAttr("value", e.Value)
			}
		}
	}

	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return errors.Wrap(err, errors.ErrPersist, "failed to encode meta manifest")
	}

	target := filepath.Join(m.BasePath, ManifestFileName)
	if err := fsys.WriteFile(target, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write meta manifest").
			WithDetail("path", target)
	}
	return nil
}

// ReadMetaManifest parses a manifest back into located edits
func ReadMetaManifest(fsys discovery.FS, basePath string) ([]ManifestEdit, error) {
	data, err := fsys.ReadFile(filepath.Join(basePath, ManifestFileName))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNotFound, "meta manifest not found").
			WithDetail("path", basePath)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse meta manifest")
	}

	root := doc.SelectElement("manifest")
	if root == nil {
		return nil, errors.New(errors.ErrConfigParse, "meta manifest has no manifest element")
	}

	var edits []ManifestEdit
	for _, groupEl := range root.SelectElements("group") {
		groupName := groupEl.SelectAttrValue("name", "")
		for _, optionEl := range groupEl.SelectElements("option") {
			optionName := optionEl.SelectAttrValue("name", "")
			for _, editEl := range optionEl.SelectElements("edit") {
				edits = append(edits, ManifestEdit{
					Group:  groupName,
					Option: optionName,
					Edit: meta.Edit{
						Kind:   meta.EditKind(editEl.SelectAttrValue("kind", "")),
						Target: editEl.SelectAttrValue("target", ""),
						Value:  editEl.SelectAttrValue("value", ""),
					},
				})
			}
		}
	}
	return edits, nil
}
