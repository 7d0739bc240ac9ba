// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package manager

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/gambit/pkg/internal/util"
)

// Version represents an installable version of a Library.
type Version struct {
	Name string              // Human-readable name of the version
	Ref  *plumbing.Reference // Git object reference of the version
}

// ResolveVersion resolves a version string for a Library into a Version.
// The following formats for the version string are supported:
//
// stable: Resolves to the latest tagged patch of the Library.
// latest: Resolves to the latest patch of the Library.
// <name>: Resolves to the patch tagged with the given name.
func (library *Library) ResolveVersion(v string) (Version, error) {
	var err error
	var version Version
	switch v {
	case "stable":
		version.Ref, err = library.FindStable()
	case "latest", "":
		version.Ref, err = library.FindLatest()
	default:
		version.Ref, err = library.FindTag(v)
	}

	if err != nil || version.Ref == nil {
		// Print the actual error at DEBUG level, and return a human-readable error instead.
		logrus.Debug(err)
		return version, fmt.Errorf("Unable to find version \x1b[31m%s\x1b[0m", v)
	}

	version.Name = VersionName(version.Ref)
	return version, nil
}

// VersionName names the version a reference points to: its tag, or the
// abbreviated commit hash for other references.
func VersionName(ref *plumbing.Reference) string {
	if ref.Name().IsTag() {
		return ref.Name().Short()
	}

	hash := ref.Hash().String()
	if len(hash) > 7 {
		hash = hash[:7]
	}

	return hash
}

// remoteRefs lists the references of the library's remote repository.
func (library *Library) remoteRefs() ([]*plumbing.Reference, error) {
	remote, err := library.Remote(git.DefaultRemoteName)
	if err != nil {
		return nil, err
	}

	return remote.List(&git.ListOptions{PeelingOption: git.AppendPeeled})
}

// FindStable finds the reference of the latest tagged patch to the
// Library, falling back to the latest patch if nothing is tagged.
func (library *Library) FindStable() (*plumbing.Reference, error) {
	logrus.Debug("Looking for the latest stable release...")

	refs, err := library.remoteRefs()
	if err != nil {
		return nil, err
	}

	if stable := LatestTag(refs); stable != nil {
		return stable, nil
	}

	return library.FindLatest()
}

// LatestTag returns the latest tag among refs, or nil if there is none.
// Which tag is the latest is determined by natural ordering of the tag
// names, which matches the versioning schemes of most libraries.
func LatestTag(refs []*plumbing.Reference) *plumbing.Reference {
	var latest *plumbing.Reference
	for _, ref := range refs {
		// skip the peeled entries of annotated tags
		if !ref.Name().IsTag() || strings.HasSuffix(ref.Name().String(), "^{}") {
			continue
		}

		if latest == nil || util.AlphanumLess(latest.Name().Short(), ref.Name().Short()) {
			latest = ref
		}
	}

	return latest
}

// FindLatest finds the reference of the latest patch to the Library.
func (library *Library) FindLatest() (*plumbing.Reference, error) {
	return library.Head()
}

// FindTag finds the reference to the patch tagged with the given name.
func (library *Library) FindTag(tag string) (*plumbing.Reference, error) {
	refs, err := library.remoteRefs()
	if err != nil {
		return nil, err
	}

	for _, ref := range refs {
		if ref.Name().IsTag() && ref.Name().Short() == tag {
			return ref, nil
		}
	}

	return nil, fmt.Errorf("Unable to find version \x1b[31m%s\x1b[0m", tag)
}
