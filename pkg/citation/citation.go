package citation

import (
	"encoding/json"
	"fmt"
)

// aiContent mirrors the reply JSON produced by the chat workflow.
type aiContent struct {
	Output []struct {
		Text      string `json:"text"`
		Citations []struct {
			ChunkIndex    int    `json:"chunk_index"`
			ChunkSourceId string `json:"chunk_source_id"`
			LinesFrom     int    `json:"chunk_lines_from"`
			LinesTo       int    `json:"chunk_lines_to"`
		} `json:"citations"`
	} `json:"output"`
}

type Citation struct {
	ChunkIndex  int    `json:"chunk_index"`
	SourceId    string `json:"source_id"`
	SourceTitle string `json:"source_title"`
	LinesFrom   int    `json:"lines_from"`
	LinesTo     int    `json:"lines_to"`
}

type Segment struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
}

// PlaceholderTitle is shown when a citation points at a source that no
// longer exists (deleted, or from another document).
func PlaceholderTitle(sourceId string) string {
	if len(sourceId) > 8 {
		sourceId = sourceId[:8]
	}
	return fmt.Sprintf("Source Reference %s...", sourceId)
}

// Transform reconciles a stored ai reply against the live source titles.
// Content that is not the workflow's JSON shape degrades to a single
// plain-text segment so old rows still render.
func Transform(content string, sourceTitles map[string]string) []Segment {
	var parsed aiContent
	if err := json.Unmarshal([]byte(content), &parsed); err != nil || len(parsed.Output) == 0 {
		return []Segment{{Text: content, Citations: []Citation{}}}
	}

	segments := make([]Segment, 0, len(parsed.Output))
	for _, out := range parsed.Output {
		seg := Segment{
			Text:      out.Text,
			Citations: make([]Citation, 0, len(out.Citations)),
		}
		for _, c := range out.Citations {
			title, ok := sourceTitles[c.ChunkSourceId]
			if !ok || title == "" {
				title = PlaceholderTitle(c.ChunkSourceId)
			}
			seg.Citations = append(seg.Citations, Citation{
				ChunkIndex:  c.ChunkIndex,
				SourceId:    c.ChunkSourceId,
				SourceTitle: title,
				LinesFrom:   c.LinesFrom,
				LinesTo:     c.LinesTo,
			})
		}
		segments = append(segments, seg)
	}
	return segments
}
