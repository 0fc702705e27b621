package bot

import (
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	p := NewCommandParser("EcoTrackBot")

	tests := []struct {
		text string
		want Command
		ok   bool
	}{
		{"/water bathing 10", Command{Name: "water", Args: []string{"bathing", "10"}, Rest: "bathing 10"}, true},
		{"  !TOP  ", Command{Name: "top", Args: []string{}, Rest: ""}, true},
		{"/top@EcoTrackBot", Command{Name: "top", Args: []string{}, Rest: ""}, true},
		{"/top@OtherBot", Command{}, false},
		{"/report Парк |  waste | много   мусора", Command{
			Name: "report",
			Args: []string{"Парк", "|", "waste", "|", "много", "мусора"},
			Rest: "Парк |  waste | много   мусора",
		}, true},
		{"hello", Command{}, false},
		{"/", Command{}, false},
		{"/@EcoTrackBot", Command{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := p.ParseCommand(tt.text)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseCommand = %+v, want %+v", got, tt.want)
			}
		})
	}
}
