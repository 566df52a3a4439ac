package fileproc

import "bytes"

const lineTerminator = '\n'

// calculateChunkBoundaries computes the row-aligned byte range owned by
// chunkIndex. rawStart/rawEnd are the fixed-size partition edges;
// alignForward walks each edge (except offset 0 and fileSize) forward to the
// byte immediately after the next line terminator, so every row is owned by
// exactly one chunk: the one whose [start, end) contains the row's opening
// byte.
//
// read is called for [rawStart, rawStart+scanWindow) and
// [rawEnd, rawEnd+scanWindow), clamped to the file size; callers pass a
// reader function since the bytes live behind a FileProvider.
func calculateChunkBoundaries(fileSizeBytes, chunkSizeBytes int64, chunkIndex int, scanWindow int, read func(start, end int64) ([]byte, error)) (ChunkBoundaries, error) {
	rawStart := int64(chunkIndex) * chunkSizeBytes
	rawEnd := rawStart + chunkSizeBytes
	if rawEnd > fileSizeBytes {
		rawEnd = fileSizeBytes
	}

	start := rawStart
	if rawStart > 0 {
		aligned, err := alignForward(rawStart, fileSizeBytes, scanWindow, read)
		if err != nil {
			return ChunkBoundaries{}, err
		}
		start = aligned
	}

	end := rawEnd
	if rawEnd < fileSizeBytes {
		aligned, err := alignForward(rawEnd, fileSizeBytes, scanWindow, read)
		if err != nil {
			return ChunkBoundaries{}, err
		}
		end = aligned
	}

	return ChunkBoundaries{
		ChunkIndex:      chunkIndex,
		StartOffset:     start,
		EndOffset:       end,
		ActualChunkSize: end - start,
	}, nil
}

// alignForward scans forward from offset, up to scanWindow bytes, for the
// next line terminator and returns the position immediately after it.
func alignForward(offset, fileSizeBytes int64, scanWindow int, read func(start, end int64) ([]byte, error)) (int64, error) {
	window := int64(scanWindow)
	end := offset + window
	if end > fileSizeBytes {
		end = fileSizeBytes
	}
	buf, err := read(offset, end)
	if err != nil {
		return 0, err
	}
	idx := bytes.IndexByte(buf, lineTerminator)
	if idx < 0 {
		return 0, BoundaryAlignmentError{Offset: offset, Window: scanWindow}
	}
	return offset + int64(idx) + 1, nil
}
