package model_test

import (
	"encoding/json"
	"testing"

	"github.com/matchday/refassign/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPosition(t *testing.T) {
	Convey("Given position labels", t, func() {
		Convey("all recognized positions are valid", func() {
			for _, p := range []model.Position{
				model.PositionCenter, model.PositionAR1, model.PositionAR2,
				model.PositionFourth, model.PositionVAR, model.PositionAVAR,
				model.PositionAAR1, model.PositionAAR2,
			} {
				So(p.Valid(), ShouldBeTrue)
			}
		})

		Convey("unknown labels are invalid", func() {
			So(model.Position("Goalkeeper").Valid(), ShouldBeFalse)
			So(model.Position("").Valid(), ShouldBeFalse)
			So(model.Position("center").Valid(), ShouldBeFalse)
		})
	})
}

func TestUserStatus(t *testing.T) {
	Convey("Given user statuses", t, func() {
		So(model.StatusOfficial.Valid(), ShouldBeTrue)
		So(model.StatusNonOfficial.Valid(), ShouldBeTrue)
		So(model.UserStatus("official").Valid(), ShouldBeFalse)
		So(model.UserStatus("").Valid(), ShouldBeFalse)
	})
}

func TestAssignmentWireShape(t *testing.T) {
	Convey("Given an assignment without referees", t, func() {
		a := model.Assignment{ID: "a1", GameID: "g1"}

		Convey("the referees field serializes as null, not an empty list", func() {
			b, err := json.Marshal(a)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"referees":null`)
			So(string(b), ShouldContainSubstring, `"game_id":"g1"`)
		})
	})

	Convey("Given an enriched referee", t, func() {
		er := model.EnrichedReferee{
			User: model.User{
				ID:        "u1",
				Status:    model.StatusOfficial,
				FirstName: "Pat",
				LastName:  "Doe",
			},
			Position: model.PositionCenter,
		}

		Convey("user fields flatten beside the position tag", func() {
			b, err := json.Marshal(er)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"first_name":"Pat"`)
			So(string(b), ShouldContainSubstring, `"position":"Center"`)
			So(string(b), ShouldNotContainSubstring, `"User"`)
		})
	})
}
