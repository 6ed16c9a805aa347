// Subset of the P3.6 data dictionary used by this package.

package dicomtag

// Standard tags. See P3.6.
var (
	FileMetaInformationGroupLength = Tag{0x0002, 0x0000}
	FileMetaInformationVersion     = Tag{0x0002, 0x0001}
	MediaStorageSOPClassUID        = Tag{0x0002, 0x0002}
	MediaStorageSOPInstanceUID     = Tag{0x0002, 0x0003}
	TransferSyntaxUID              = Tag{0x0002, 0x0010}
	ImplementationClassUID         = Tag{0x0002, 0x0012}
	ImplementationVersionName      = Tag{0x0002, 0x0013}
	SourceApplicationEntityTitle   = Tag{0x0002, 0x0016}
	PrivateInformationCreatorUID   = Tag{0x0002, 0x0100}
	PrivateInformation             = Tag{0x0002, 0x0102}
	SpecificCharacterSet           = Tag{0x0008, 0x0005}
	ImageType                      = Tag{0x0008, 0x0008}
	InstanceCreationDate           = Tag{0x0008, 0x0012}
	InstanceCreationTime           = Tag{0x0008, 0x0013}
	SOPClassUID                    = Tag{0x0008, 0x0016}
	SOPInstanceUID                 = Tag{0x0008, 0x0018}
	StudyDate                      = Tag{0x0008, 0x0020}
	SeriesDate                     = Tag{0x0008, 0x0021}
	AcquisitionDate                = Tag{0x0008, 0x0022}
	ContentDate                    = Tag{0x0008, 0x0023}
	StudyTime                      = Tag{0x0008, 0x0030}
	SeriesTime                     = Tag{0x0008, 0x0031}
	ContentTime                    = Tag{0x0008, 0x0033}
	AccessionNumber                = Tag{0x0008, 0x0050}
	QueryRetrieveLevel             = Tag{0x0008, 0x0052}
	RetrieveAETitle                = Tag{0x0008, 0x0054}
	Modality                       = Tag{0x0008, 0x0060}
	ModalitiesInStudy              = Tag{0x0008, 0x0061}
	Manufacturer                   = Tag{0x0008, 0x0070}
	InstitutionName                = Tag{0x0008, 0x0080}
	ReferringPhysicianName         = Tag{0x0008, 0x0090}
	CodeValue                      = Tag{0x0008, 0x0100}
	CodingSchemeDesignator         = Tag{0x0008, 0x0102}
	CodeMeaning                    = Tag{0x0008, 0x0104}
	StudyDescription               = Tag{0x0008, 0x1030}
	SeriesDescription              = Tag{0x0008, 0x103E}
	ManufacturerModelName          = Tag{0x0008, 0x1090}
	ReferencedStudySequence        = Tag{0x0008, 0x1110}
	ReferencedSeriesSequence       = Tag{0x0008, 0x1115}
	ReferencedImageSequence        = Tag{0x0008, 0x1140}
	ReferencedSOPClassUID          = Tag{0x0008, 0x1150}
	ReferencedSOPInstanceUID       = Tag{0x0008, 0x1155}
	SourceImageSequence            = Tag{0x0008, 0x2112}
	PatientName                    = Tag{0x0010, 0x0010}
	PatientID                      = Tag{0x0010, 0x0020}
	PatientBirthDate               = Tag{0x0010, 0x0030}
	PatientSex                     = Tag{0x0010, 0x0040}
	PatientAge                     = Tag{0x0010, 0x1010}
	PatientSize                    = Tag{0x0010, 0x1020}
	PatientWeight                  = Tag{0x0010, 0x1030}
	PatientComments                = Tag{0x0010, 0x4000}
	BodyPartExamined               = Tag{0x0018, 0x0015}
	SliceThickness                 = Tag{0x0018, 0x0050}
	KVP                            = Tag{0x0018, 0x0060}
	SpacingBetweenSlices           = Tag{0x0018, 0x0088}
	SoftwareVersions               = Tag{0x0018, 0x1020}
	ProtocolName                   = Tag{0x0018, 0x1030}
	PatientPosition                = Tag{0x0018, 0x5100}
	StudyInstanceUID               = Tag{0x0020, 0x000D}
	SeriesInstanceUID              = Tag{0x0020, 0x000E}
	StudyID                        = Tag{0x0020, 0x0010}
	SeriesNumber                   = Tag{0x0020, 0x0011}
	InstanceNumber                 = Tag{0x0020, 0x0013}
	ImagePositionPatient           = Tag{0x0020, 0x0032}
	ImageOrientationPatient        = Tag{0x0020, 0x0037}
	FrameOfReferenceUID            = Tag{0x0020, 0x0052}
	SliceLocation                  = Tag{0x0020, 0x1041}
	ImageComments                  = Tag{0x0020, 0x4000}
	SamplesPerPixel                = Tag{0x0028, 0x0002}
	PhotometricInterpretation      = Tag{0x0028, 0x0004}
	PlanarConfiguration            = Tag{0x0028, 0x0006}
	NumberOfFrames                 = Tag{0x0028, 0x0008}
	FrameIncrementPointer          = Tag{0x0028, 0x0009}
	Rows                           = Tag{0x0028, 0x0010}
	Columns                        = Tag{0x0028, 0x0011}
	PixelSpacing                   = Tag{0x0028, 0x0030}
	BitsAllocated                  = Tag{0x0028, 0x0100}
	BitsStored                     = Tag{0x0028, 0x0101}
	HighBit                        = Tag{0x0028, 0x0102}
	PixelRepresentation            = Tag{0x0028, 0x0103}
	SmallestImagePixelValue        = Tag{0x0028, 0x0106}
	LargestImagePixelValue         = Tag{0x0028, 0x0107}
	WindowCenter                   = Tag{0x0028, 0x1050}
	WindowWidth                    = Tag{0x0028, 0x1051}
	RescaleIntercept               = Tag{0x0028, 0x1052}
	RescaleSlope                   = Tag{0x0028, 0x1053}
	RescaleType                    = Tag{0x0028, 0x1054}
	VOILUTSequence                 = Tag{0x0028, 0x3010}
	RequestAttributesSequence      = Tag{0x0040, 0x0275}
	ContentSequence                = Tag{0x0040, 0xA730}
	ValueType                      = Tag{0x0040, 0xA040}
	TextValue                      = Tag{0x0040, 0xA160}
	NumericValue                   = Tag{0x0040, 0xA30A}
	RealWorldValueMappingSequence  = Tag{0x0040, 0x9096}
	RealWorldValueLUTData          = Tag{0x0040, 0x9212}
	RealWorldValueIntercept        = Tag{0x0040, 0x9224}
	RealWorldValueSlope            = Tag{0x0040, 0x9225}
	TagAngleSecondAxis             = Tag{0x0018, 0x9219}
	DiffusionBValue                = Tag{0x0018, 0x9087}
	DiffusionGradientOrientation   = Tag{0x0018, 0x9089}
	DimensionIndexValues           = Tag{0x0020, 0x9157}
	DimensionIndexPointer          = Tag{0x0020, 0x9165}
	SequenceOfUltrasoundRegions    = Tag{0x0018, 0x6011}
	RegionLocationMinX0            = Tag{0x0018, 0x6018}
	PhysicalDeltaX                 = Tag{0x0018, 0x602C}
	ImagerPixelSpacing             = Tag{0x0018, 0x1164}
	ContentQualification           = Tag{0x0018, 0x9004}
	PixelMeasuresSequence          = Tag{0x0028, 0x9110}
	NumberOfSlices                 = Tag{0x0054, 0x0081}
	ImageIndex                     = Tag{0x0054, 0x1330}
	FloatPixelData                 = Tag{0x7FE0, 0x0008}
	DoubleFloatPixelData           = Tag{0x7FE0, 0x0009}
	PixelData                      = Tag{0x7FE0, 0x0010}
	Item                           = Tag{0xFFFE, 0xE000}
	ItemDelimitationItem           = Tag{0xFFFE, 0xE00D}
	SequenceDelimitationItem       = Tag{0xFFFE, 0xE0DD}
)

// dictData is the tab separated (tag, VR, name, VM) dictionary.
const dictData = `# tag	VR	Name	VM
(0002,0000)	UL	FileMetaInformationGroupLength	1
(0002,0001)	OB	FileMetaInformationVersion	1
(0002,0002)	UI	MediaStorageSOPClassUID	1
(0002,0003)	UI	MediaStorageSOPInstanceUID	1
(0002,0010)	UI	TransferSyntaxUID	1
(0002,0012)	UI	ImplementationClassUID	1
(0002,0013)	SH	ImplementationVersionName	1
(0002,0016)	AE	SourceApplicationEntityTitle	1
(0002,0100)	UI	PrivateInformationCreatorUID	1
(0002,0102)	OB	PrivateInformation	1
(0008,0005)	CS	SpecificCharacterSet	1-n
(0008,0008)	CS	ImageType	2-n
(0008,0012)	DA	InstanceCreationDate	1
(0008,0013)	TM	InstanceCreationTime	1
(0008,0016)	UI	SOPClassUID	1
(0008,0018)	UI	SOPInstanceUID	1
(0008,0020)	DA	StudyDate	1
(0008,0021)	DA	SeriesDate	1
(0008,0022)	DA	AcquisitionDate	1
(0008,0023)	DA	ContentDate	1
(0008,0030)	TM	StudyTime	1
(0008,0031)	TM	SeriesTime	1
(0008,0033)	TM	ContentTime	1
(0008,0050)	SH	AccessionNumber	1
(0008,0052)	CS	QueryRetrieveLevel	1
(0008,0054)	AE	RetrieveAETitle	1-n
(0008,0060)	CS	Modality	1
(0008,0061)	CS	ModalitiesInStudy	1-n
(0008,0070)	LO	Manufacturer	1
(0008,0080)	LO	InstitutionName	1
(0008,0090)	PN	ReferringPhysicianName	1
(0008,0100)	SH	CodeValue	1
(0008,0102)	SH	CodingSchemeDesignator	1
(0008,0104)	LO	CodeMeaning	1
(0008,1030)	LO	StudyDescription	1
(0008,103E)	LO	SeriesDescription	1
(0008,1090)	LO	ManufacturerModelName	1
(0008,1110)	SQ	ReferencedStudySequence	1
(0008,1115)	SQ	ReferencedSeriesSequence	1
(0008,1140)	SQ	ReferencedImageSequence	1
(0008,1150)	UI	ReferencedSOPClassUID	1
(0008,1155)	UI	ReferencedSOPInstanceUID	1
(0008,2112)	SQ	SourceImageSequence	1
(0010,0010)	PN	PatientName	1
(0010,0020)	LO	PatientID	1
(0010,0030)	DA	PatientBirthDate	1
(0010,0040)	CS	PatientSex	1
(0010,1010)	AS	PatientAge	1
(0010,1020)	DS	PatientSize	1
(0010,1030)	DS	PatientWeight	1
(0010,4000)	LT	PatientComments	1
(0018,0015)	CS	BodyPartExamined	1
(0018,0050)	DS	SliceThickness	1
(0018,0060)	DS	KVP	1
(0018,0088)	DS	SpacingBetweenSlices	1
(0018,1020)	LO	SoftwareVersions	1-n
(0018,1030)	LO	ProtocolName	1
(0018,5100)	CS	PatientPosition	1
(0020,000D)	UI	StudyInstanceUID	1
(0020,000E)	UI	SeriesInstanceUID	1
(0020,0010)	SH	StudyID	1
(0020,0011)	IS	SeriesNumber	1
(0020,0013)	IS	InstanceNumber	1
(0020,0032)	DS	ImagePositionPatient	3
(0020,0037)	DS	ImageOrientationPatient	6
(0020,0052)	UI	FrameOfReferenceUID	1
(0020,1041)	DS	SliceLocation	1
(0020,4000)	LT	ImageComments	1
(0028,0002)	US	SamplesPerPixel	1
(0028,0004)	CS	PhotometricInterpretation	1
(0028,0006)	US	PlanarConfiguration	1
(0028,0008)	IS	NumberOfFrames	1
(0028,0009)	AT	FrameIncrementPointer	1-n
(0028,0010)	US	Rows	1
(0028,0011)	US	Columns	1
(0028,0030)	DS	PixelSpacing	2
(0028,0100)	US	BitsAllocated	1
(0028,0101)	US	BitsStored	1
(0028,0102)	US	HighBit	1
(0028,0103)	US	PixelRepresentation	1
(0028,0106)	US or SS	SmallestImagePixelValue	1
(0028,0107)	US or SS	LargestImagePixelValue	1
(0028,1050)	DS	WindowCenter	1-n
(0028,1051)	DS	WindowWidth	1-n
(0028,1052)	DS	RescaleIntercept	1
(0028,1053)	DS	RescaleSlope	1
(0028,1054)	LO	RescaleType	1
(0028,3010)	SQ	VOILUTSequence	1
(0040,0275)	SQ	RequestAttributesSequence	1
(0040,A730)	SQ	ContentSequence	1
(0040,A040)	CS	ValueType	1
(0040,A160)	UT	TextValue	1
(0040,A30A)	DS	NumericValue	1-n
(0040,9096)	SQ	RealWorldValueMappingSequence	1
(0040,9212)	FD	RealWorldValueLUTData	1-n
(0040,9224)	FD	RealWorldValueIntercept	1
(0040,9225)	FD	RealWorldValueSlope	1
(0018,9219)	SS	TagAngleSecondAxis	1
(0018,9087)	FD	DiffusionBValue	1
(0018,9089)	FD	DiffusionGradientOrientation	3
(0020,9157)	UL	DimensionIndexValues	1-n
(0020,9165)	AT	DimensionIndexPointer	1
(0018,6011)	SQ	SequenceOfUltrasoundRegions	1
(0018,6018)	UL	RegionLocationMinX0	1
(0018,602C)	FD	PhysicalDeltaX	1
(0018,1164)	DS	ImagerPixelSpacing	2
(0018,9004)	CS	ContentQualification	1
(0028,9110)	SQ	PixelMeasuresSequence	1
(0054,0081)	US	NumberOfSlices	1
(0054,1330)	US	ImageIndex	1
(7FE0,0008)	OF	FloatPixelData	1
(7FE0,0009)	OD	DoubleFloatPixelData	1
(7FE0,0010)	OB or OW	PixelData	1
(FFFE,E000)	NA	Item	1
(FFFE,E00D)	NA	ItemDelimitationItem	1
(FFFE,E0DD)	NA	SequenceDelimitationItem	1
`
