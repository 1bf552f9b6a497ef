package stepup

import (
	"testing"

	"github.com/okian/hobbyseeds/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var catalog = []model.StepUpHobby{
	{ID: 1, Name: "ヨガ", MatchTags: []string{"フィジカル", "リラックス", "健康"}},
	{ID: 4, Name: "バードウォッチング", MatchTags: []string{"自然", "観察", "発見"}},
	{ID: 5, Name: "天体写真", MatchTags: []string{"自然", "リラックス"}},
	{ID: 7, Name: "陶芸", MatchTags: []string{"創作"}},
}

func TestUnlock(t *testing.T) {
	Convey("Given great counts around the threshold", t, func() {
		cases := []struct {
			great     int
			unlocked  bool
			remaining int
		}{
			{0, false, 3},
			{1, false, 2},
			{2, false, 1},
			{3, true, 0},
			{10, true, 0},
			{-1, false, 4},
		}
		for _, c := range cases {
			So(IsUnlocked(c.great), ShouldEqual, c.unlocked)
			So(RemainingToUnlock(c.great), ShouldEqual, c.remaining)
		}
	})
}

func TestMatch(t *testing.T) {
	Convey("Given no user tags", t, func() {
		got := Match(catalog, nil)
		So(got, ShouldNotBeNil)
		So(got, ShouldBeEmpty)
	})

	Convey("Given a three tag profile", t, func() {
		got := Match(catalog, []string{"自然", "リラックス", "観察"})

		Convey("Then hobbies are ranked by coverage", func() {
			So(got, ShouldHaveLength, 3)
			So(got[0].Hobby.ID, ShouldEqual, 4)
			So(got[0].MatchScore, ShouldEqual, 67)
			So(got[0].MatchedTags, ShouldResemble, []string{"自然", "観察"})
			So(got[1].Hobby.ID, ShouldEqual, 5)
			So(got[1].MatchScore, ShouldEqual, 67)
			So(got[1].MatchedTags, ShouldResemble, []string{"自然", "リラックス"})
			So(got[2].Hobby.ID, ShouldEqual, 1)
			So(got[2].MatchScore, ShouldEqual, 33)
		})

		Convey("And hobbies with no overlap are dropped", func() {
			for _, r := range got {
				So(r.Hobby.ID, ShouldNotEqual, 7)
			}
		})
	})

	Convey("Given a single tag profile fully covered", t, func() {
		got := Match(catalog, []string{"創作"})
		So(got, ShouldHaveLength, 1)
		So(got[0].MatchScore, ShouldEqual, 100)
	})

	Convey("Given a partial and a full overlap", t, func() {
		got := Match([]model.StepUpHobby{
			{ID: 10, MatchTags: []string{"a"}},
			{ID: 11, MatchTags: []string{"a", "b"}},
		}, []string{"a", "b"})
		So(got[0].Hobby.ID, ShouldEqual, 11)
		So(got[0].MatchScore, ShouldEqual, 100)
		So(got[1].MatchScore, ShouldEqual, 50)
	})

	Convey("Given every result", t, func() {
		profile := []string{"自然", "リラックス", "観察", "健康"}
		for _, r := range Match(catalog, profile) {
			So(r.MatchScore, ShouldBeBetweenOrEqual, 0, 100)
			So(len(r.MatchedTags), ShouldBeGreaterThan, 0)
			for _, tag := range r.MatchedTags {
				So(profile, ShouldContain, tag)
				So(r.Hobby.MatchTags, ShouldContain, tag)
			}
		}
	})
}

func TestPercent(t *testing.T) {
	Convey("Percent rounds halves up", t, func() {
		So(percent(1, 3), ShouldEqual, 33)
		So(percent(2, 3), ShouldEqual, 67)
		So(percent(1, 2), ShouldEqual, 50)
		So(percent(1, 8), ShouldEqual, 13) // 12.5
		So(percent(3, 3), ShouldEqual, 100)
	})
}

func TestFindByID(t *testing.T) {
	Convey("Given the catalog", t, func() {
		h, ok := FindByID(catalog, 5)
		So(ok, ShouldBeTrue)
		So(h.Name, ShouldEqual, "天体写真")

		_, ok = FindByID(catalog, 999)
		So(ok, ShouldBeFalse)
	})
}
