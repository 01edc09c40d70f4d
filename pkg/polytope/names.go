package polytope

import "strconv"

var elementNames = [...][2]string{
	{"Vertex", "Vertices"},
	{"Edge", "Edges"},
	{"Face", "Faces"},
	{"Cell", "Cells"},
	{"Teron", "Tera"},
	{"Peton", "Peta"},
	{"Exon", "Exa"},
	{"Zetton", "Zetta"},
	{"Yotton", "Yotta"},
	{"Xennon", "Xenna"},
	{"Dakon", "Daka"},
	{"Hendakon", "Hendaka"},
	{"Dokon", "Doka"},
	{"Tradakon", "Tradaka"},
	{"Teradakon", "Teradaka"},
	{"Petadakon", "Petadaka"},
	{"Exdakon", "Exdaka"},
	{"Zettadakon", "Zettadaka"},
	{"Yottadakon", "Yottadaka"},
	{"Xendakon", "Xendaka"},
	{"Icon", "Ica"},
}

// ElementName returns the name of an element of the given rank, e.g.
// "Cell" for 3 or "Tera" for 4 in the plural. Ranks past 20 are named
// "n-element".
func ElementName(rank int, plural bool) string {
	if rank >= 0 && rank < len(elementNames) {
		if plural {
			return elementNames[rank][1]
		}
		return elementNames[rank][0]
	}
	if plural {
		return strconv.Itoa(rank) + "-elements"
	}
	return strconv.Itoa(rank) + "-element"
}
