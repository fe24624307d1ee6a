package pipeline

import "github.com/example/streamweave/internal/seadex"

// precomputeSeaDex tags every stream carrying a torrent info-hash with
// its SeaDex membership, preferring a hash hit; only when no stream in
// the whole batch had a hash hit does release-group membership serve
// as a fallback (§4.3 step 2).
func precomputeSeaDex(streams []ParsedStream, hashes *seadex.InfoHashes) {
	if hashes == nil {
		return
	}

	anyHashMatched := false
	for i := range streams {
		s := &streams[i]
		if s.Torrent == nil || s.Torrent.InfoHash == "" {
			continue
		}
		if hashes.HasHash(s.Torrent.InfoHash) {
			s.SeaDex = &SeaDexTag{
				IsBest:   hashes.HasBestHash(s.Torrent.InfoHash),
				IsSeadex: true,
			}
			anyHashMatched = true
		}
	}
	if anyHashMatched {
		return
	}

	for i := range streams {
		s := &streams[i]
		if s.ParsedFile == nil || s.ParsedFile.ReleaseGroup == "" {
			continue
		}
		if hashes.HasGroup(s.ParsedFile.ReleaseGroup) {
			s.SeaDex = &SeaDexTag{
				IsBest:   hashes.HasBestGroup(s.ParsedFile.ReleaseGroup),
				IsSeadex: true,
			}
		}
	}
}
