// file: internals/features/residents/dto/resident_dto.go
package dto

import (
	service "iplku_backend/internals/features/residents/service"
)

type ResidentRequest struct {
	NamaWarga         string  `json:"nama_warga"          validate:"required,max=255"`
	BlokNomorRumah    string  `json:"blok_nomor_rumah"    validate:"required,max=255"`
	DefaultNominalIpl float64 `json:"default_nominal_ipl" validate:"min=0"`
	Status            string  `json:"status"              validate:"required,oneof=active inactive"`
}

func (r *ResidentRequest) ToInput() service.ResidentInput {
	return service.ResidentInput{
		NamaWarga:         r.NamaWarga,
		BlokNomorRumah:    r.BlokNomorRumah,
		DefaultNominalIpl: r.DefaultNominalIpl,
		Status:            r.Status,
	}
}
