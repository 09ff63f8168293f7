package user_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"timesheet-management/internal/user"
)

var _ = Describe("UserDTO", func() {
	decode := func(body string) *user.DTO {
		var dto user.DTO
		Expect(json.Unmarshal([]byte(body), &dto)).To(Succeed())
		return &dto
	}

	Describe("UnmarshalJSON", func() {
		It("reads snake_case keys", func() {
			dto := decode(`{"first_name":"Jane","last_name":"Doe"}`)
			Expect(*dto.FirstName).To(Equal("Jane"))
			Expect(*dto.LastName).To(Equal("Doe"))
		})

		It("reads camelCase keys when snake_case is absent", func() {
			dto := decode(`{"firstName":"Jane","dateOfBirth":"1992-03-14"}`)
			Expect(*dto.FirstName).To(Equal("Jane"))
			Expect(dto.DateOfBirth.Year()).To(Equal(1992))
		})

		It("prefers snake_case when both spellings are present", func() {
			dto := decode(`{"first_name":"Snake","firstName":"Camel"}`)
			Expect(*dto.FirstName).To(Equal("Snake"))
		})

		It("leaves unsent fields nil and distinguishes them from zero values", func() {
			dto := decode(`{"first_name":""}`)
			Expect(dto.FirstName).NotTo(BeNil())
			Expect(*dto.FirstName).To(Equal(""))
			Expect(dto.LastName).To(BeNil())
			Expect(dto.Email).To(BeNil())
		})

		It("treats explicit null as absent", func() {
			dto := decode(`{"email":null}`)
			Expect(dto.Email).To(BeNil())
		})

		It("coerces a numeric string id", func() {
			dto := decode(`{"id":"42"}`)
			Expect(*dto.ID).To(Equal(int64(42)))
		})
	})

	Describe("Updates", func() {
		It("emits only present fields and never the password", func() {
			dto := decode(`{"first_name":"Jane","password":"supersecret"}`)
			updates := dto.Updates()
			Expect(updates).To(HaveKeyWithValue("first_name", "Jane"))
			Expect(updates).NotTo(HaveKey("password"))
			Expect(updates).NotTo(HaveKey("password_hash"))
			Expect(updates).NotTo(HaveKey("last_name"))
		})

		It("is empty for an empty DTO", func() {
			Expect((&user.DTO{}).Updates()).To(BeEmpty())
		})
	})

	Describe("Merge", func() {
		It("lets the other side win except for the id", func() {
			selfID, otherID := int64(1), int64(2)
			self := user.DTO{ID: &selfID, FirstName: strP("Jane")}
			other := user.DTO{ID: &otherID, FirstName: strP("Janet"), LastName: strP("Doe")}

			merged := self.Merge(other)
			Expect(*merged.ID).To(Equal(selfID))
			Expect(*merged.FirstName).To(Equal("Janet"))
			Expect(*merged.LastName).To(Equal("Doe"))
		})

		It("adopts the other id when self has none", func() {
			otherID := int64(2)
			merged := (user.DTO{}).Merge(user.DTO{ID: &otherID})
			Expect(*merged.ID).To(Equal(otherID))
		})

		It("keeps self fields the other side did not send", func() {
			dob := time.Date(1992, 3, 14, 0, 0, 0, 0, time.UTC)
			self := user.DTO{DateOfBirth: &dob}
			merged := self.Merge(user.DTO{})
			Expect(merged.DateOfBirth).To(Equal(&dob))
		})
	})

	Describe("ValidateForCreate", func() {
		It("rejects a DTO with everything missing", func() {
			appErr := (&user.DTO{}).ValidateForCreate()
			Expect(appErr).NotTo(BeNil())
			Expect(appErr.StatusCode).To(Equal(422))
		})

		It("rejects a short password", func() {
			dto := decode(`{"first_name":"Jane","last_name":"Doe","date_of_birth":"1992-03-14","gender":"female","email":"jane@mail.com","password":"short"}`)
			Expect(dto.ValidateForCreate()).NotTo(BeNil())
		})

		It("rejects an unknown gender", func() {
			dto := decode(`{"first_name":"Jane","last_name":"Doe","date_of_birth":"1992-03-14","gender":"unknown","email":"jane@mail.com","password":"supersecret"}`)
			Expect(dto.ValidateForCreate()).NotTo(BeNil())
		})

		It("accepts a complete valid DTO", func() {
			dto := decode(`{"first_name":"Jane","last_name":"Doe","date_of_birth":"1992-03-14","gender":"female","email":"jane@mail.com","password":"supersecret"}`)
			Expect(dto.ValidateForCreate()).To(BeNil())
		})
	})

	Describe("ValidateForUpdate", func() {
		It("ignores absent fields", func() {
			Expect((&user.DTO{}).ValidateForUpdate()).To(BeNil())
		})

		It("still checks present fields", func() {
			dto := decode(`{"email":"not-an-email"}`)
			Expect(dto.ValidateForUpdate()).NotTo(BeNil())
		})
	})
})

func strP(s string) *string { return &s }
